package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Phrases that mean the customer is explicitly asking for a person. Matched
// locally as well as by the provider, so an unavailable provider cannot
// swallow an explicit human request.
var humanRequestPhrases = []string{
	"speak to a manager",
	"talk to a manager",
	"speak to a human",
	"talk to a human",
	"speak to a person",
	"real person",
	"human agent",
	"speak with someone",
	"talk to someone",
}

// Client is the HTTP client for the sentiment-scoring provider.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

var _ IAnalyzer = (*Client)(nil)

// NewClient creates a sentiment client for the given provider endpoint.
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

// Analyze scores the given text. The local human-request phrase match is
// merged into the provider flags.
func (c *Client) Analyze(ctx context.Context, text string) (*Result, error) {
	url := fmt.Sprintf("%s/v1/sentiment", c.apiURL)

	body, err := json.Marshal(Request{Text: text})
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
		return nil, fmt.Errorf("failed to call sentiment API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sentiment API error %d: %s", resp.StatusCode, string(raw))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode sentiment response: %w", err)
	}

	if MatchesHumanRequest(text) && !result.HasFlag(FlagHumanRequest) {
		result.Flags = append(result.Flags, FlagHumanRequest)
	}

	return &result, nil
}

// MatchesHumanRequest reports whether the text contains an explicit request
// for a human operator.
func MatchesHumanRequest(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range humanRequestPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
