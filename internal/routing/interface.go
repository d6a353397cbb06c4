package routing

import (
	"context"

	"dealership-chat-router/internal/model"
)

// UseCase defines the business logic interface for the routing domain.
type UseCase interface {
	// Route classifies one inbound message and decides which agent answers
	// it, or escalates to a human. It returns an error only for invalid
	// input; provider failures are absorbed into a degraded decision.
	Route(ctx context.Context, msg model.Message) (model.RoutingDecision, error)

	// ResetConversation clears the escalation state and rolling window for
	// a conversation. Called by the human-agent workflow after handoff.
	ResetConversation(ctx context.Context, conversationID string) bool

	// Status reports provider reachability for the health endpoint.
	Status(ctx context.Context) HealthStatus
}
