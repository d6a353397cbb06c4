package routing

import "errors"

// Domain-specific errors for the routing package.
var (
	// ErrClassificationUnavailable marks a classifier timeout or provider
	// error. Recovered by the fallback handler, never surfaced to callers.
	ErrClassificationUnavailable = errors.New("classification unavailable")

	// ErrSentimentUnavailable marks a sentiment timeout or provider error.
	// Sentiment is advisory, so this only downgrades the signal to neutral.
	ErrSentimentUnavailable = errors.New("sentiment unavailable")

	// Input validation errors, the only ones Route returns.
	ErrEmptyMessage        = errors.New("message text is empty")
	ErrEmptyConversationID = errors.New("conversation id is empty")
)
