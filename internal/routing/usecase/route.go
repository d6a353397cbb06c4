package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dealership-chat-router/internal/model"
	"dealership-chat-router/internal/routing"
	"dealership-chat-router/pkg/classify"
	"dealership-chat-router/pkg/sentiment"
)

// Route classifies one message and produces exactly one RoutingDecision.
// Provider failures never surface as errors: the fallback path always yields
// a usable decision.
func (uc *implUseCase) Route(ctx context.Context, msg model.Message) (model.RoutingDecision, error) {
	start := time.Now()

	if strings.TrimSpace(msg.Text) == "" {
		return model.RoutingDecision{}, routing.ErrEmptyMessage
	}
	if msg.ConversationID == "" {
		return model.RoutingDecision{}, routing.ErrEmptyConversationID
	}
	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = start
	}

	// Serialize per conversation so escalation transitions see turns in
	// arrival order. Different conversations route in parallel.
	cs := uc.getOrCreateContext(msg.ConversationID)
	cs.mu.Lock()
	defer cs.mu.Unlock()

	classRes, classErr, sentRes, sentErr := uc.fanOut(ctx, msg, cs.recentTexts())

	uc.health.observeClassifier(classErr)
	uc.health.observeSentiment(sentErr)

	if classErr != nil {
		uc.l.Warnf(ctx, "%s: %v", routing.LogPrefixRoute, classErr)
	}
	if sentErr != nil {
		uc.l.Warnf(ctx, "%s: %v", routing.LogPrefixRoute, sentErr)
	}

	degraded := classErr != nil || sentErr != nil

	sig := turnSignals{sentiment: sentRes, degraded: degraded}
	if classErr == nil {
		if top, ok := classRes.Top(); ok {
			sig.topConfidence = top.Confidence
		}
	}

	state, escalationReason := uc.evaluateEscalation(cs, sig)
	cs.state = state

	var d model.RoutingDecision
	switch {
	case state == routing.StateEscalated:
		d = uc.escalatedDecision(msg, sentRes, sig, escalationReason, degraded)
	case classErr != nil:
		d = uc.fallbackDecision(msg, sentRes, routing.ReasonClassifierFailure)
	default:
		d = uc.selectAgent(msg, classRes, sentRes, sentErr != nil)
	}

	d.ProcessingTimeMs = time.Since(start).Milliseconds()
	d.CreatedAt = time.Now()

	cs.appendTurn(routing.Turn{
		MessageText:   msg.Text,
		SelectedAgent: d.SelectedAgent,
		Confidence:    d.Confidence,
		Sentiment:     sentRes,
		Degraded:      d.Degraded,
		At:            d.CreatedAt,
	}, uc.cfg.HistoryWindow)
	uc.touchContext(msg.ConversationID, cs)

	uc.persist(ctx, d)

	uc.l.Infof(ctx, "%s: conversation=%s agent=%s confidence=%.2f escalated=%t degraded=%t",
		routing.LogPrefixRoute, d.ConversationID, d.SelectedAgent, d.Confidence, d.Escalated, d.Degraded)

	return d, nil
}

// fanOut runs the classifier and sentiment calls concurrently, each under
// its own timeout, and joins both results. A sentiment failure is replaced
// with a neutral result; the local human-request phrase match still applies
// so an outage cannot swallow an explicit request for a person.
func (uc *implUseCase) fanOut(ctx context.Context, msg model.Message, history []string) (routing.ClassificationResult, error, sentiment.Result, error) {
	type classifyOut struct {
		res routing.ClassificationResult
		err error
	}
	type sentimentOut struct {
		res sentiment.Result
		err error
	}

	classifyCh := make(chan classifyOut, 1)
	sentimentCh := make(chan sentimentOut, 1)

	go func() {
		cctx, cancel := context.WithTimeout(ctx, uc.cfg.ClassifierTimeout)
		defer cancel()

		resp, err := uc.classifier.Classify(cctx, classify.Request{
			Text:            msg.Text,
			History:         history,
			CandidateLabels: uc.reg.Labels(),
		})
		if err != nil {
			classifyCh <- classifyOut{err: fmt.Errorf("%w: %v", routing.ErrClassificationUnavailable, err)}
			return
		}
		classifyCh <- classifyOut{res: uc.rerank(resp)}
	}()

	go func() {
		sctx, cancel := context.WithTimeout(ctx, uc.cfg.SentimentTimeout)
		defer cancel()

		resp, err := uc.analyzer.Analyze(sctx, msg.Text)
		if err != nil {
			sentimentCh <- sentimentOut{err: fmt.Errorf("%w: %v", routing.ErrSentimentUnavailable, err)}
			return
		}
		sentimentCh <- sentimentOut{res: *resp}
	}()

	co := <-classifyCh
	so := <-sentimentCh

	sentRes := so.res
	if so.err != nil {
		sentRes = sentiment.Neutral()
		if sentiment.MatchesHumanRequest(msg.Text) {
			sentRes.Flags = append(sentRes.Flags, sentiment.FlagHumanRequest)
		}
	}

	return co.res, co.err, sentRes, so.err
}

// rerank maps provider labels back to registered agents and orders them:
// confidence desc, then priority asc (lower priority value wins ties), then
// agent id asc. Labels no agent claims are dropped so an unregistered id can
// never be selected.
func (uc *implUseCase) rerank(resp *classify.Response) routing.ClassificationResult {
	best := make(map[string]float64)
	for _, rl := range resp.Ranked {
		agentID, ok := uc.labelOwner[rl.Label]
		if !ok {
			// Providers may rank agent ids directly.
			if _, known := uc.reg.Get(rl.Label); !known {
				continue
			}
			agentID = rl.Label
		}
		if rl.Confidence > best[agentID] {
			best[agentID] = rl.Confidence
		}
	}

	ranked := make([]routing.RankedAgent, 0, len(best))
	// Registry order is priority asc then id asc, which is exactly the
	// tie-break order, so a stable walk gives deterministic ranking.
	for _, p := range uc.reg.List() {
		if conf, ok := best[p.ID]; ok {
			ranked = append(ranked, routing.RankedAgent{AgentID: p.ID, Confidence: conf})
		}
	}
	sortRankedStable(ranked)

	return routing.ClassificationResult{
		RankedAgents:   ranked,
		ModelLatencyMs: resp.ModelLatencyMs,
	}
}

// selectAgent picks the winner for a non-escalated turn. A sentiment outage
// degrades the decision (confidence is no longer meaningful) but keeps the
// classifier's choice — sentiment is advisory, not a hard dependency.
func (uc *implUseCase) selectAgent(msg model.Message, classRes routing.ClassificationResult, sentRes sentiment.Result, sentimentDown bool) model.RoutingDecision {
	top, ok := classRes.Top()
	if !ok {
		return uc.fallbackDecision(msg, sentRes, routing.ReasonNoCandidates)
	}

	selected := top.AgentID
	confidence := top.Confidence
	reasoning := fmt.Sprintf("%s: %s (%.2f)", routing.ReasonTopChoice, top.AgentID, top.Confidence)

	if top.Confidence < uc.cfg.MinConfidence {
		selected = uc.reg.Default().ID
		reasoning = fmt.Sprintf("%s: top candidate %s at %.2f below %.2f",
			routing.ReasonLowConfidence, top.AgentID, top.Confidence, uc.cfg.MinConfidence)
	}

	d := model.RoutingDecision{
		ConversationID: msg.ConversationID,
		MessageID:      msg.MessageID,
		DealershipID:   msg.DealershipID,
		SelectedAgent:  selected,
		Confidence:     confidence,
		Sentiment:      sentRes.NegativeIntensity,
		Reasoning:      reasoning,
	}

	if sentimentDown {
		d.Degraded = true
		d.Confidence = 0
		d.Reasoning = routing.ReasonSentimentFailure + "; " + reasoning
	}

	return d
}

// persist records the decision: one metrics write and one store append per
// call. Neither failure propagates to the routing path.
func (uc *implUseCase) persist(ctx context.Context, d model.RoutingDecision) {
	uc.collector.Record(d)

	if uc.store == nil {
		return
	}
	if err := uc.store.Append(ctx, d); err != nil {
		uc.l.Errorf(ctx, "%s: decision store append failed: %v", routing.LogPrefixRoute, err)
	}
}

func sortRankedStable(ranked []routing.RankedAgent) {
	// Insertion sort on confidence desc; input is already in tie-break
	// order (priority asc, id asc) and insertion sort is stable.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Confidence > ranked[j-1].Confidence; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
}

// recentTexts returns the message texts in the rolling window, oldest first.
// Caller holds cs.mu.
func (cs *conversationState) recentTexts() []string {
	if len(cs.turns) == 0 {
		return nil
	}
	out := make([]string, 0, len(cs.turns))
	for _, t := range cs.turns {
		out = append(out, t.MessageText)
	}
	return out
}
