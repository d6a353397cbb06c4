package routing

import (
	"time"

	"dealership-chat-router/pkg/sentiment"
)

// EscalationState is the per-conversation state machine position.
type EscalationState string

const (
	StateNormal    EscalationState = "NORMAL"
	StateWatch     EscalationState = "WATCH"
	StateEscalated EscalationState = "ESCALATED"
)

// RankedAgent is one (agent, confidence) candidate after re-ranking against
// the registry.
type RankedAgent struct {
	AgentID    string  `json:"agent_id"`
	Confidence float64 `json:"confidence"`
}

// ClassificationResult is the normalized classifier output: ranked by
// confidence desc, ties broken by registry priority asc, unknown labels
// dropped.
type ClassificationResult struct {
	RankedAgents   []RankedAgent `json:"ranked_agents"`
	ModelLatencyMs int64         `json:"model_latency_ms"`
}

// Top returns the best candidate, if any.
func (c ClassificationResult) Top() (RankedAgent, bool) {
	if len(c.RankedAgents) == 0 {
		return RankedAgent{}, false
	}
	return c.RankedAgents[0], true
}

// Turn is one completed routing turn kept in the conversation window.
type Turn struct {
	MessageText   string
	SelectedAgent string
	Confidence    float64
	Sentiment     sentiment.Result
	Degraded      bool
	At            time.Time
}

// HealthStatus summarizes dependency reachability for GET /health.
type HealthStatus struct {
	Status          string   `json:"status"` // ok | degraded | down
	AgentsAvailable int      `json:"agents_available"`
	Errors          []string `json:"errors"`
}
