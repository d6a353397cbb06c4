package usecase_test

import (
	"context"
	"sync"
	"time"

	"dealership-chat-router/internal/metrics"
	"dealership-chat-router/internal/model"
	"dealership-chat-router/internal/registry"
	"dealership-chat-router/internal/routing"
	"dealership-chat-router/internal/routing/usecase"
	"dealership-chat-router/pkg/classify"
	"dealership-chat-router/pkg/sentiment"
)

// Mock logger for testing
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

// Mock classifier client
type mockClassifier struct {
	classifyFunc func(ctx context.Context, req classify.Request) (*classify.Response, error)
}

func (m *mockClassifier) Classify(ctx context.Context, req classify.Request) (*classify.Response, error) {
	if m.classifyFunc != nil {
		return m.classifyFunc(ctx, req)
	}
	return &classify.Response{}, nil
}

// Mock sentiment client
type mockAnalyzer struct {
	analyzeFunc func(ctx context.Context, text string) (*sentiment.Result, error)
}

func (m *mockAnalyzer) Analyze(ctx context.Context, text string) (*sentiment.Result, error) {
	if m.analyzeFunc != nil {
		return m.analyzeFunc(ctx, text)
	}
	return &sentiment.Result{Score: 0.5}, nil
}

// Mock decision store capturing appends
type mockStore struct {
	mu        sync.Mutex
	appended  []model.RoutingDecision
	appendErr error
}

func (m *mockStore) Append(ctx context.Context, d model.RoutingDecision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, d)
	return nil
}

func (m *mockStore) ListByConversation(ctx context.Context, conversationID string, limit int) ([]model.RoutingDecision, error) {
	return nil, nil
}

func (m *mockStore) ListByDealership(ctx context.Context, dealershipID int, from, to time.Time) ([]model.RoutingDecision, error) {
	return nil, nil
}

func (m *mockStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appended)
}

// Static helpers

func rankedResponse(pairs ...any) *classify.Response {
	resp := &classify.Response{ModelLatencyMs: 50}
	for i := 0; i+1 < len(pairs); i += 2 {
		resp.Ranked = append(resp.Ranked, classify.RankedLabel{
			Label:      pairs[i].(string),
			Confidence: pairs[i+1].(float64),
		})
	}
	return resp
}

func neutralAnalyzer(intensity float64, flags ...string) *mockAnalyzer {
	return &mockAnalyzer{
		analyzeFunc: func(ctx context.Context, text string) (*sentiment.Result, error) {
			return &sentiment.Result{
				Score:             1 - intensity,
				NegativeIntensity: intensity,
				Flags:             flags,
			}, nil
		},
	}
}

func testRegistry() *registry.Registry {
	reg, err := registry.New([]registry.AgentProfile{
		{ID: "inventory-agent", DisplayName: "Inventory", IntentLabels: []string{"vehicle-search"}, Priority: 1},
		{ID: "sales-agent", DisplayName: "Sales", IntentLabels: []string{"purchase"}, Priority: 2},
		{ID: "finance-agent", DisplayName: "Finance", IntentLabels: []string{"financing"}, Priority: 3},
		{ID: "general-agent", DisplayName: "General", IntentLabels: []string{"greeting"}, Priority: 10},
	}, "general-agent")
	if err != nil {
		panic(err)
	}
	return reg
}

type testEnv struct {
	uc        routing.UseCase
	store     *mockStore
	collector *metrics.Collector
}

func newTestUseCase(classifier *mockClassifier, analyzer *mockAnalyzer, cfg usecase.Config) testEnv {
	store := &mockStore{}
	collector := metrics.New(&mockLogger{}, 64)

	if cfg.ClassifierTimeout == 0 {
		cfg.ClassifierTimeout = 100 * time.Millisecond
	}
	if cfg.SentimentTimeout == 0 {
		cfg.SentimentTimeout = 100 * time.Millisecond
	}

	uc, err := usecase.New(&mockLogger{}, testRegistry(), classifier, analyzer, store, collector, cfg)
	if err != nil {
		panic(err)
	}
	return testEnv{uc: uc, store: store, collector: collector}
}

func testMessage(conversationID, text string) model.Message {
	return model.Message{
		Text:           text,
		UserID:         "user-1",
		ConversationID: conversationID,
		DealershipID:   42,
	}
}
