package model

import "time"

// AgentHumanEscalation is the sentinel agent id meaning "hand off to a human
// operator". It is never a registered agent.
const AgentHumanEscalation = "human-escalation"

// RoutingDecision is the immutable record of how one message was routed.
// Written once per message; the durable input for analytics and for the
// downstream reply-generation path.
type RoutingDecision struct {
	ConversationID   string    `json:"conversation_id"`
	MessageID        string    `json:"message_id"`
	DealershipID     int       `json:"dealership_id"`
	SelectedAgent    string    `json:"selected_agent"`
	Confidence       float64   `json:"confidence"`
	Sentiment        float64   `json:"sentiment"`
	Escalated        bool      `json:"escalated"`
	Degraded         bool      `json:"degraded"`
	Reasoning        string    `json:"reasoning"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// MetricsAggregate is the per-dealership rollup over a time range. Derived
// from the decision stream, recomputable, never authoritative.
type MetricsAggregate struct {
	DealershipID   int              `json:"dealership_id"`
	From           time.Time        `json:"from"`
	To             time.Time        `json:"to"`
	Interactions   int64            `json:"interactions"`
	Escalations    int64            `json:"escalations"`
	Degraded       int64            `json:"degraded"`
	EscalationRate float64          `json:"escalation_rate"`
	AvgConfidence  float64          `json:"avg_confidence"`
	AvgLatencyMs   float64          `json:"avg_latency_ms"`
	ByAgent        map[string]int64 `json:"by_agent"`
}
