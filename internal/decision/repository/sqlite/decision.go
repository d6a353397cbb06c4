package sqlite

import (
	"context"
	"fmt"
	"time"

	"dealership-chat-router/internal/decision/repository"
	"dealership-chat-router/internal/model"
)

// Append inserts one routing decision. Decisions are append-only: there is
// no update path for this table.
func (s *Store) Append(ctx context.Context, d model.RoutingDecision) error {
	if d.ConversationID == "" || d.MessageID == "" || d.SelectedAgent == "" {
		return repository.ErrDecisionInvalid
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO routing_decisions
		 (conversation_id, message_id, dealership_id, selected_agent, confidence,
		  sentiment, escalated, degraded, reasoning, processing_time_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ConversationID, d.MessageID, d.DealershipID, d.SelectedAgent, d.Confidence,
		d.Sentiment, boolToInt(d.Escalated), boolToInt(d.Degraded), d.Reasoning,
		d.ProcessingTimeMs, d.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append decision: %w", err)
	}
	return nil
}

// ListByConversation returns the newest decisions first, up to limit.
func (s *Store) ListByConversation(ctx context.Context, conversationID string, limit int) ([]model.RoutingDecision, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT conversation_id, message_id, dealership_id, selected_agent, confidence,
		        sentiment, escalated, degraded, reasoning, processing_time_ms, created_at
		 FROM routing_decisions
		 WHERE conversation_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		conversationID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

// ListByDealership returns decisions in [from, to), oldest first.
func (s *Store) ListByDealership(ctx context.Context, dealershipID int, from, to time.Time) ([]model.RoutingDecision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT conversation_id, message_id, dealership_id, selected_agent, confidence,
		        sentiment, escalated, degraded, reasoning, processing_time_ms, created_at
		 FROM routing_decisions
		 WHERE dealership_id = ? AND created_at >= ? AND created_at < ?
		 ORDER BY created_at ASC, id ASC`,
		dealershipID, from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanDecisions(rows rowScanner) ([]model.RoutingDecision, error) {
	var out []model.RoutingDecision
	for rows.Next() {
		var d model.RoutingDecision
		var escalated, degraded int
		if err := rows.Scan(
			&d.ConversationID, &d.MessageID, &d.DealershipID, &d.SelectedAgent,
			&d.Confidence, &d.Sentiment, &escalated, &degraded, &d.Reasoning,
			&d.ProcessingTimeMs, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		d.Escalated = escalated != 0
		d.Degraded = degraded != 0
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
