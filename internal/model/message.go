package model

import "time"

// Message is one inbound customer chat message. Immutable once received.
type Message struct {
	MessageID      string    `json:"message_id"`
	Text           string    `json:"text"`
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	DealershipID   int       `json:"dealership_id"`
	ReceivedAt     time.Time `json:"received_at"`
}
