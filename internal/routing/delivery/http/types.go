package http

import "time"

// RouteMessageRequest is the body of POST /api/v1/route-message.
type RouteMessageRequest struct {
	Text           string            `json:"text" binding:"required"`
	UserID         string            `json:"user_id"`
	ConversationID string            `json:"conversation_id" binding:"required"`
	DealershipID   int               `json:"dealership_id" binding:"required"`
	MessageID      string            `json:"message_id"`
	ReceivedAt     time.Time         `json:"received_at"`
	Metadata       map[string]string `json:"metadata"`
}

// defaultMetricsRange applies when GET /api/v1/metrics has no range param.
const defaultMetricsRange = 24 * time.Hour
