package usecase

import (
	"dealership-chat-router/internal/model"
	"dealership-chat-router/pkg/sentiment"
)

// fallbackDecision is the last line of defense: a degraded decision routed
// to the default agent. It is a pure construction with no dependencies that
// can fail. The sentiment-emergency case never reaches here — escalation is
// evaluated first in Route, so an emergency turn takes the escalated path
// even when classification is down.
func (uc *implUseCase) fallbackDecision(msg model.Message, sentRes sentiment.Result, reason string) model.RoutingDecision {
	return model.RoutingDecision{
		ConversationID: msg.ConversationID,
		MessageID:      msg.MessageID,
		DealershipID:   msg.DealershipID,
		SelectedAgent:  uc.reg.Default().ID,
		Confidence:     0,
		Sentiment:      sentRes.NegativeIntensity,
		Escalated:      false,
		Degraded:       true,
		Reasoning:      reason,
	}
}

// escalatedDecision hands the turn to a human operator. Confidence keeps the
// classifier's top score when the turn was fully observed; a degraded
// escalation carries the sentinel 0.
func (uc *implUseCase) escalatedDecision(msg model.Message, sentRes sentiment.Result, sig turnSignals, reason string, degraded bool) model.RoutingDecision {
	confidence := sig.topConfidence
	if degraded {
		confidence = 0
	}

	return model.RoutingDecision{
		ConversationID: msg.ConversationID,
		MessageID:      msg.MessageID,
		DealershipID:   msg.DealershipID,
		SelectedAgent:  model.AgentHumanEscalation,
		Confidence:     confidence,
		Sentiment:      sentRes.NegativeIntensity,
		Escalated:      true,
		Degraded:       degraded,
		Reasoning:      reason,
	}
}
