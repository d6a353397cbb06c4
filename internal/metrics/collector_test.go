package metrics_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dealership-chat-router/internal/metrics"
	"dealership-chat-router/internal/model"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

func decisionAt(at time.Time, agent string, confidence float64, escalated, degraded bool, latencyMs int64) model.RoutingDecision {
	return model.RoutingDecision{
		ConversationID:   "conv-1",
		MessageID:        "msg-1",
		DealershipID:     42,
		SelectedAgent:    agent,
		Confidence:       confidence,
		Escalated:        escalated,
		Degraded:         degraded,
		ProcessingTimeMs: latencyMs,
		CreatedAt:        at,
	}
}

func TestCollector_Summarize(t *testing.T) {
	c := metrics.New(&mockLogger{}, 64)
	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	c.Record(decisionAt(base, "inventory-agent", 0.9, false, false, 100))
	c.Record(decisionAt(base.Add(time.Minute), "sales-agent", 0.7, false, false, 200))
	c.Record(decisionAt(base.Add(2*time.Minute), "human-escalation", 0.95, true, false, 300))
	c.Record(decisionAt(base.Add(3*time.Minute), "general-agent", 0, false, true, 400))
	c.Close()

	agg := c.Summarize(42, base, base.Add(10*time.Minute))

	if agg.Interactions != 4 {
		t.Errorf("expected 4 interactions, got %d", agg.Interactions)
	}
	if agg.Escalations != 1 {
		t.Errorf("expected 1 escalation, got %d", agg.Escalations)
	}
	if agg.Degraded != 1 {
		t.Errorf("expected 1 degraded, got %d", agg.Degraded)
	}
	if agg.EscalationRate != 0.25 {
		t.Errorf("expected escalation rate 0.25, got %v", agg.EscalationRate)
	}
	if agg.AvgLatencyMs != 250 {
		t.Errorf("expected avg latency 250, got %v", agg.AvgLatencyMs)
	}

	// Degraded decisions carry sentinel confidence 0 and must not drag the
	// average down: (0.9 + 0.7 + 0.95) / 3.
	want := (0.9 + 0.7 + 0.95) / 3
	if diff := agg.AvgConfidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected avg confidence %v, got %v", want, agg.AvgConfidence)
	}

	if agg.ByAgent["inventory-agent"] != 1 || agg.ByAgent["human-escalation"] != 1 {
		t.Errorf("unexpected per-agent counts: %v", agg.ByAgent)
	}
}

func TestCollector_ScopedByDealershipAndRange(t *testing.T) {
	c := metrics.New(&mockLogger{}, 64)
	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	inRange := decisionAt(base, "inventory-agent", 0.9, false, false, 100)
	c.Record(inRange)

	outOfRange := decisionAt(base.Add(2*time.Hour), "inventory-agent", 0.9, false, false, 100)
	c.Record(outOfRange)

	otherDealer := decisionAt(base, "inventory-agent", 0.9, false, false, 100)
	otherDealer.DealershipID = 7
	c.Record(otherDealer)
	c.Close()

	agg := c.Summarize(42, base.Add(-time.Minute), base.Add(time.Hour))
	if agg.Interactions != 1 {
		t.Errorf("expected only the in-range decision, got %d", agg.Interactions)
	}

	empty := c.Summarize(99, base.Add(-time.Hour), base.Add(time.Hour))
	if empty.Interactions != 0 {
		t.Errorf("expected empty aggregate, got %d interactions", empty.Interactions)
	}
	if empty.ByAgent == nil {
		t.Errorf("ByAgent must never be nil")
	}
}

func TestCollector_DropsOnFullBuffer(t *testing.T) {
	// Buffer of 1 with no consumer progress guarantee: flood it and expect
	// drops counted rather than a blocked caller.
	c := metrics.New(&mockLogger{}, 1)
	base := time.Now()

	for i := 0; i < 2000; i++ {
		c.Record(decisionAt(base, "inventory-agent", 0.9, false, false, 100))
	}
	c.Close()

	agg := c.Summarize(42, base.Add(-time.Hour), base.Add(time.Hour))
	if agg.Interactions+c.Dropped() != 2000 {
		t.Errorf("recorded (%d) + dropped (%d) must equal 2000", agg.Interactions, c.Dropped())
	}
}

func TestCollector_CloseIsIdempotent(t *testing.T) {
	c := metrics.New(&mockLogger{}, 8)
	c.Record(decisionAt(time.Now(), "inventory-agent", 0.9, false, false, 100))
	c.Close()
	c.Close() // must not panic or block
}

func TestCollector_ConcurrentRecord(t *testing.T) {
	c := metrics.New(&mockLogger{}, 4096)
	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				c.Record(decisionAt(base, fmt.Sprintf("agent-%d", g), 0.5, false, false, 10))
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}
	c.Close()

	agg := c.Summarize(42, base.Add(-time.Minute), base.Add(time.Minute))
	if agg.Interactions != 800 {
		t.Errorf("expected 800 interactions, got %d", agg.Interactions)
	}
}
