package repository

import (
	"context"
	"time"

	"dealership-chat-router/internal/model"
)

// Repository is the append-only store for routing decisions. Decisions are
// written once and never mutated; aggregates are recomputed from this stream.
type Repository interface {
	// Append writes one decision. Failures are non-fatal to routing and
	// must be handled (logged) by the caller.
	Append(ctx context.Context, d model.RoutingDecision) error

	// ListByConversation returns the most recent decisions for a
	// conversation, newest first, up to limit.
	ListByConversation(ctx context.Context, conversationID string, limit int) ([]model.RoutingDecision, error)

	// ListByDealership returns all decisions for a dealership in
	// [from, to), oldest first. Used to recompute aggregates.
	ListByDealership(ctx context.Context, dealershipID int, from, to time.Time) ([]model.RoutingDecision, error)
}
