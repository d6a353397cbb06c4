package sentiment

import "context"

// IAnalyzer defines the interface for the sentiment-scoring provider client.
// Implementations are safe for concurrent use.
type IAnalyzer interface {
	// Analyze scores the given text for affect and escalation flags.
	Analyze(ctx context.Context, text string) (*Result, error)
}
