package usecase

import (
	"context"
	"sync"

	"dealership-chat-router/internal/routing"
)

// conversationState is the mutable per-conversation record: the escalation
// state machine position, the low-confidence streak, and the rolling window
// of recent turns. The embedded mutex serializes routing within one
// conversation so decisions append in arrival order.
type conversationState struct {
	mu sync.Mutex

	state               routing.EscalationState
	lowConfidenceStreak int
	turns               []routing.Turn
}

// getOrCreateContext returns the state for a conversation, creating it on
// first message. Creation is guarded so two concurrent first messages share
// one state.
func (uc *implUseCase) getOrCreateContext(conversationID string) *conversationState {
	uc.contextsMu.Lock()
	defer uc.contextsMu.Unlock()

	if cs, ok := uc.contexts.Get(conversationID); ok {
		return cs
	}
	cs := &conversationState{state: routing.StateNormal}
	uc.contexts.Add(conversationID, cs)
	return cs
}

// touchContext re-adds the entry so the LRU TTL acts as an idle timeout.
// Caller holds cs.mu.
func (uc *implUseCase) touchContext(conversationID string, cs *conversationState) {
	uc.contexts.Add(conversationID, cs)
}

// appendTurn records a completed turn, truncating the window to its bound.
// Caller holds cs.mu.
func (cs *conversationState) appendTurn(turn routing.Turn, window int) {
	cs.turns = append(cs.turns, turn)
	if len(cs.turns) > window {
		cs.turns = cs.turns[len(cs.turns)-window:]
	}
}

// ResetConversation clears a conversation's escalation state and window.
// Returns false when the conversation is unknown (already evicted or never
// seen). This is the external reset the human-agent workflow calls after a
// handoff is resolved.
func (uc *implUseCase) ResetConversation(ctx context.Context, conversationID string) bool {
	uc.contextsMu.Lock()
	cs, ok := uc.contexts.Get(conversationID)
	uc.contextsMu.Unlock()
	if !ok {
		return false
	}

	cs.mu.Lock()
	cs.state = routing.StateNormal
	cs.lowConfidenceStreak = 0
	cs.turns = nil
	cs.mu.Unlock()

	uc.l.Infof(ctx, "%s: conversation %s reset to %s", routing.LogPrefixReset, conversationID, routing.StateNormal)
	return true
}
