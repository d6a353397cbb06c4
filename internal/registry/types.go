package registry

// AgentProfile describes one specialized reply agent the router can select.
// Profiles are loaded once at startup and never mutated.
type AgentProfile struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"display_name"`
	IntentLabels []string `json:"intent_labels"`
	// Priority breaks confidence ties in classifier ranking: lower value
	// wins. It is an ordering, not an importance weight.
	Priority int `json:"priority"`
}
