package usecase

import (
	"dealership-chat-router/internal/routing"
	"dealership-chat-router/pkg/sentiment"
)

// turnSignals are the inputs the escalation policy sees for one message.
type turnSignals struct {
	sentiment     sentiment.Result
	topConfidence float64 // classifier top score; ignored when degraded
	degraded      bool
}

// evaluateEscalation advances the state machine for one turn and returns the
// new state plus the reason when the turn escalates. Caller holds cs.mu;
// cs.lowConfidenceStreak is updated here.
//
// ESCALATED is terminal for the conversation window: only an external reset
// (or idle eviction) leaves it.
func (uc *implUseCase) evaluateEscalation(cs *conversationState, sig turnSignals) (routing.EscalationState, string) {
	// A degraded turn carries the sentinel confidence 0 regardless of what
	// the classifier scored, so sustained outages feed the low-confidence
	// rule instead of looping customers forever.
	topConfidence := sig.topConfidence
	if sig.degraded {
		topConfidence = 0
	}

	lowConfidence := topConfidence < uc.cfg.MinConfidence
	if lowConfidence {
		cs.lowConfidenceStreak++
	} else {
		cs.lowConfidenceStreak = 0
	}

	if cs.state == routing.StateEscalated {
		return routing.StateEscalated, routing.ReasonEscalatedSticky
	}

	// Immediate triggers apply from any non-escalated state.
	if sig.sentiment.HasFlag(sentiment.FlagHumanRequest) {
		return routing.StateEscalated, routing.ReasonEscalatedRequest
	}
	if sig.sentiment.NegativeIntensity >= uc.cfg.EscalateNegative ||
		sig.sentiment.HasFlag(sentiment.FlagAbusiveLanguage) {
		return routing.StateEscalated, routing.ReasonEscalatedSentiment
	}

	negative := sig.sentiment.NegativeIntensity >= uc.cfg.WatchNegative

	switch cs.state {
	case routing.StateWatch:
		if negative || lowConfidence {
			return routing.StateEscalated, routing.ReasonEscalatedWatch
		}
		if topConfidence >= uc.cfg.RecoverConfidence {
			return routing.StateNormal, ""
		}
		return routing.StateWatch, ""

	default: // NORMAL
		if negative {
			return routing.StateWatch, ""
		}
		if cs.lowConfidenceStreak >= uc.cfg.LowConfidenceStreak {
			return routing.StateWatch, ""
		}
		return routing.StateNormal, ""
	}
}
