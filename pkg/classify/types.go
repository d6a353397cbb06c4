package classify

// Request is the request body for the text-classification provider.
type Request struct {
	Text            string   `json:"text"`
	History         []string `json:"history,omitempty"`
	CandidateLabels []string `json:"candidate_labels"`
}

// RankedLabel is one (label, confidence) pair from the provider, ordered by
// descending confidence.
type RankedLabel struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Response is the provider response body.
type Response struct {
	Ranked         []RankedLabel `json:"ranked"`
	ModelLatencyMs int64         `json:"model_latency_ms"`
}
