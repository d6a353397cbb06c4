package classify

import "context"

// IClassifier defines the interface for the text-classification provider client.
// Implementations are safe for concurrent use.
type IClassifier interface {
	// Classify ranks the candidate labels for the given text.
	Classify(ctx context.Context, req Request) (*Response, error)
}
