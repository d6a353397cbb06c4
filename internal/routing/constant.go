package routing

// Log prefixes
const (
	LogPrefixRoute    = "internal.routing.Route"
	LogPrefixFallback = "internal.routing.fallback"
	LogPrefixReset    = "internal.routing.ResetConversation"
)

// Reasoning fragments attached to decisions. These are user-visible in the
// analytics views, keep them descriptive.
const (
	ReasonEscalatedSentiment = "escalated: negative sentiment above threshold"
	ReasonEscalatedRequest   = "escalated: customer explicitly requested a human"
	ReasonEscalatedWatch     = "escalated: repeated low-confidence or negative turns"
	ReasonEscalatedSticky    = "escalated: conversation already handed off to a human"
	ReasonLowConfidence      = "low classifier confidence, rerouted to default agent"
	ReasonClassifierFailure  = "degraded: classification unavailable"
	ReasonSentimentFailure   = "degraded: sentiment unavailable"
	ReasonNoCandidates       = "degraded: classifier returned no known agents"
	ReasonTopChoice          = "classifier top choice"
)
