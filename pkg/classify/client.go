package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the HTTP client for the text-classification provider.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

var _ IClassifier = (*Client)(nil)

// NewClient creates a classification client for the given provider endpoint.
// timeout bounds each Classify call; retry policy belongs to the caller.
func NewClient(apiURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetAPIURL overrides the provider endpoint. Used by tests.
func (c *Client) SetAPIURL(url string) {
	c.apiURL = url
}

// Classify sends a classification request to the provider.
func (c *Client) Classify(ctx context.Context, req Request) (*Response, error) {
	url := fmt.Sprintf("%s/v1/classify", c.apiURL)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call classification API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("classification API error %d: %s", resp.StatusCode, string(raw))
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode classification response: %w", err)
	}

	return &result, nil
}
