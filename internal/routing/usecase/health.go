package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dealership-chat-router/internal/routing"
)

// failureWindow is how long a provider error keeps the service reporting
// degraded after the last successful call.
const failureWindow = 2 * time.Minute

// healthTracker remembers the most recent outcome per provider.
type healthTracker struct {
	mu sync.Mutex

	classifierErr error
	classifierAt  time.Time
	sentimentErr  error
	sentimentAt   time.Time
}

func (h *healthTracker) observeClassifier(err error) {
	h.mu.Lock()
	h.classifierErr = err
	h.classifierAt = time.Now()
	h.mu.Unlock()
}

func (h *healthTracker) observeSentiment(err error) {
	h.mu.Lock()
	h.sentimentErr = err
	h.sentimentAt = time.Now()
	h.mu.Unlock()
}

func (h *healthTracker) failing() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []string
	now := time.Now()
	if h.classifierErr != nil && now.Sub(h.classifierAt) < failureWindow {
		errs = append(errs, fmt.Sprintf("classifier: %v", h.classifierErr))
	}
	if h.sentimentErr != nil && now.Sub(h.sentimentAt) < failureWindow {
		errs = append(errs, fmt.Sprintf("sentiment: %v", h.sentimentErr))
	}
	return errs
}

// Status reports dependency reachability. Both providers failing means the
// service cannot produce a non-degraded decision at all, which we report as
// down; one failing provider is degraded.
func (uc *implUseCase) Status(ctx context.Context) routing.HealthStatus {
	errs := uc.health.failing()
	if errs == nil {
		errs = []string{}
	}

	status := "ok"
	switch len(errs) {
	case 1:
		status = "degraded"
	case 2:
		status = "down"
	}

	return routing.HealthStatus{
		Status:          status,
		AgentsAvailable: len(uc.reg.List()),
		Errors:          errs,
	}
}
