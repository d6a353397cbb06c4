package metrics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"dealership-chat-router/internal/model"
	"dealership-chat-router/pkg/log"
)

// Collector records every routing decision and serves per-dealership
// summaries. Record is fire-and-forget: it never blocks the routing path and
// never returns an error. A buffered channel feeds a single consumer
// goroutine, so the aggregate maps see one writer.
type Collector struct {
	l log.Logger

	ch      chan model.RoutingDecision
	dropped atomic.Int64

	mu      sync.RWMutex
	buckets map[bucketKey]*bucketStats

	done chan struct{}
	once sync.Once
}

// New starts a collector with the given buffer size.
func New(l log.Logger, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	c := &Collector{
		l:       l,
		ch:      make(chan model.RoutingDecision, bufferSize),
		buckets: make(map[bucketKey]*bucketStats),
		done:    make(chan struct{}),
	}
	go c.consume()
	return c
}

// Record enqueues one decision. On a full buffer the record is dropped and
// counted; routing is never held up by analytics.
func (c *Collector) Record(d model.RoutingDecision) {
	select {
	case c.ch <- d:
	default:
		n := c.dropped.Add(1)
		c.l.Warnf(context.Background(), "metrics: buffer full, dropped record (total dropped: %d)", n)
	}
}

// Dropped returns how many records were lost to a full buffer.
func (c *Collector) Dropped() int64 {
	return c.dropped.Load()
}

// Close stops the consumer after draining buffered records.
func (c *Collector) Close() {
	c.once.Do(func() {
		close(c.ch)
		<-c.done
	})
}

func (c *Collector) consume() {
	defer close(c.done)
	for d := range c.ch {
		c.apply(d)
	}
}

func (c *Collector) apply(d model.RoutingDecision) {
	key := bucketKey{
		dealershipID: d.DealershipID,
		bucket:       d.CreatedAt.UTC().Truncate(bucketSize).Unix(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.buckets[key]
	if !ok {
		b = &bucketStats{byAgent: make(map[string]int64)}
		c.buckets[key] = b
	}

	b.interactions++
	if d.Escalated {
		b.escalations++
	}
	if d.Degraded {
		b.degraded++
	} else {
		b.confidenceSum += d.Confidence
		b.confidenceN++
	}
	b.latencySumMs += d.ProcessingTimeMs
	b.byAgent[d.SelectedAgent]++
}

// Summarize computes the aggregate for a dealership over [from, to). The
// range is widened to whole buckets.
func (c *Collector) Summarize(dealershipID int, from, to time.Time) model.MetricsAggregate {
	fromBucket := from.UTC().Truncate(bucketSize).Unix()
	toBucket := to.UTC().Truncate(bucketSize).Unix()

	agg := model.MetricsAggregate{
		DealershipID: dealershipID,
		From:         from,
		To:           to,
		ByAgent:      make(map[string]int64),
	}

	var confidenceSum float64
	var confidenceN int64
	var latencySum int64

	c.mu.RLock()
	for key, b := range c.buckets {
		if key.dealershipID != dealershipID || key.bucket < fromBucket || key.bucket > toBucket {
			continue
		}
		agg.Interactions += b.interactions
		agg.Escalations += b.escalations
		agg.Degraded += b.degraded
		confidenceSum += b.confidenceSum
		confidenceN += b.confidenceN
		latencySum += b.latencySumMs
		for agent, n := range b.byAgent {
			agg.ByAgent[agent] += n
		}
	}
	c.mu.RUnlock()

	if agg.Interactions > 0 {
		agg.EscalationRate = float64(agg.Escalations) / float64(agg.Interactions)
		agg.AvgLatencyMs = float64(latencySum) / float64(agg.Interactions)
	}
	if confidenceN > 0 {
		agg.AvgConfidence = confidenceSum / float64(confidenceN)
	}

	return agg
}
