package usecase

import (
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"dealership-chat-router/internal/decision/repository"
	"dealership-chat-router/internal/metrics"
	"dealership-chat-router/internal/registry"
	"dealership-chat-router/internal/routing"
	"dealership-chat-router/pkg/classify"
	pkgLog "dealership-chat-router/pkg/log"
	"dealership-chat-router/pkg/sentiment"
)

// Config holds the routing thresholds and timeouts. Values come from
// config.RoutingConfig; they are validated again here so the usecase is safe
// to construct directly in tests.
type Config struct {
	EscalateNegative    float64
	WatchNegative       float64
	MinConfidence       float64
	RecoverConfidence   float64
	LowConfidenceStreak int
	HistoryWindow       int
	ContextTTL          time.Duration
	ContextCapacity     int
	ClassifierTimeout   time.Duration
	SentimentTimeout    time.Duration
}

type implUseCase struct {
	l          pkgLog.Logger
	reg        *registry.Registry
	classifier classify.IClassifier
	analyzer   sentiment.IAnalyzer
	store      repository.Repository
	collector  *metrics.Collector
	cfg        Config

	// labelOwner maps each intent label to the agent that claims it;
	// built once from the registry, read-only afterwards.
	labelOwner map[string]string

	// contexts holds per-conversation state with idle eviction. Re-added
	// on every turn so the TTL behaves as an idle timeout.
	contexts   *expirable.LRU[string, *conversationState]
	contextsMu sync.Mutex // guards get-or-create

	health healthTracker
}

var _ routing.UseCase = (*implUseCase)(nil)

// New creates the routing UseCase.
func New(
	l pkgLog.Logger,
	reg *registry.Registry,
	classifier classify.IClassifier,
	analyzer sentiment.IAnalyzer,
	store repository.Repository,
	collector *metrics.Collector,
	cfg Config,
) (*implUseCase, error) {
	if l == nil {
		return nil, errors.New("logger is required")
	}
	if reg == nil {
		return nil, errors.New("agent registry is required")
	}
	if classifier == nil {
		return nil, errors.New("classifier client is required")
	}
	if analyzer == nil {
		return nil, errors.New("sentiment client is required")
	}
	if collector == nil {
		return nil, errors.New("metrics collector is required")
	}

	applyConfigDefaults(&cfg)

	uc := &implUseCase{
		l:          l,
		reg:        reg,
		classifier: classifier,
		analyzer:   analyzer,
		store:      store,
		collector:  collector,
		cfg:        cfg,
	}
	uc.contexts = expirable.NewLRU[string, *conversationState](cfg.ContextCapacity, nil, cfg.ContextTTL)

	// Priority order: the first claimant of a shared label wins.
	uc.labelOwner = make(map[string]string)
	for _, p := range reg.List() {
		for _, label := range p.IntentLabels {
			if _, taken := uc.labelOwner[label]; !taken {
				uc.labelOwner[label] = p.ID
			}
		}
	}

	return uc, nil
}

func applyConfigDefaults(cfg *Config) {
	if cfg.EscalateNegative == 0 {
		cfg.EscalateNegative = 0.8
	}
	if cfg.WatchNegative == 0 {
		cfg.WatchNegative = 0.5
	}
	if cfg.MinConfidence == 0 {
		cfg.MinConfidence = 0.4
	}
	if cfg.RecoverConfidence == 0 {
		cfg.RecoverConfidence = 0.7
	}
	if cfg.LowConfidenceStreak == 0 {
		cfg.LowConfidenceStreak = 2
	}
	if cfg.HistoryWindow == 0 {
		cfg.HistoryWindow = 10
	}
	if cfg.ContextTTL == 0 {
		cfg.ContextTTL = 30 * time.Minute
	}
	if cfg.ContextCapacity == 0 {
		cfg.ContextCapacity = 4096
	}
	if cfg.ClassifierTimeout == 0 {
		cfg.ClassifierTimeout = 5 * time.Second
	}
	if cfg.SentimentTimeout == 0 {
		cfg.SentimentTimeout = 2 * time.Second
	}
}
