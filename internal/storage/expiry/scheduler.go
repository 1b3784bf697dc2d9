package expiry

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/rediskv-go/internal/telemetry/metric"
)

// Store is the part of the key-value store the scheduler mutates.
type Store interface {
	Delete(key string) bool
	DeleteVersion(key string, version uint64) bool
}

// Scheduler consumes expiration requests and deletes keys when their TTL
// elapses.
type Scheduler struct {
	queue   *Queue
	store   Store
	logger  *slog.Logger
	metrics *metric.Registry

	pending atomic.Int64
	wg      sync.WaitGroup
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// New creates a scheduler reading from queue and deleting from store.
func New(queue *Queue, store Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		queue:  queue,
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run consumes the queue until ctx is cancelled or the queue is closed.
// Timers still waiting when Run returns are abandoned once ctx is done;
// call Wait to block until they have exited.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("expiry scheduler started", "queue_size", s.queue.Cap())
	defer s.logger.Info("expiry scheduler stopped", "pending", s.Pending())

	for {
		select {
		case req := <-s.queue.ch:
			s.schedule(ctx, req)
		case <-s.queue.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Pending returns the number of timers that have not fired yet.
func (s *Scheduler) Pending() int {
	return int(s.pending.Load())
}

// Wait blocks until every started timer has fired or been abandoned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) schedule(ctx context.Context, req Request) {
	s.pending.Add(1)
	s.metrics.ExpiryScheduled()
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer s.pending.Add(-1)

		timer := time.NewTimer(req.TTL)
		defer timer.Stop()

		select {
		case <-timer.C:
			s.fire(req)
		case <-ctx.Done():
			s.metrics.ExpiryAbandoned()
		}
	}()
}

func (s *Scheduler) fire(req Request) {
	var (
		removed bool
		result  string
	)
	if req.Version != 0 {
		removed = s.store.DeleteVersion(req.Key, req.Version)
		result = metric.ExpirySuperseded
	} else {
		removed = s.store.Delete(req.Key)
		result = metric.ExpiryMissing
	}
	if removed {
		result = metric.ExpiryRemoved
	}

	s.metrics.ExpiryFired(result)
	s.logger.Debug("key expired", "key", req.Key, "ttl", req.TTL, "result", result)
}
