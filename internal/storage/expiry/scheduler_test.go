package expiry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/rediskv-go/internal/storage/memory"
	"github.com/yndnr/rediskv-go/internal/telemetry/metric"
)

func startScheduler(t *testing.T, store Store, opts ...Option) (*Queue, *Scheduler) {
	t.Helper()
	q := NewQueue(16)
	s := New(q, store, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		s.Wait()
	})
	return q, s
}

func fired(reg *metric.Registry, result string) float64 {
	return testutil.ToFloat64(reg.ExpirationsFired.WithLabelValues(result))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestScheduler_Expires(t *testing.T) {
	store := memory.New()
	q, _ := startScheduler(t, store)

	store.Set("k", "v")
	if err := q.Enqueue(context.Background(), Request{Key: "k", TTL: 50 * time.Millisecond}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	if v, ok := store.Get("k"); !ok || v != "v" {
		t.Fatalf("Get before expiry = %q, %v", v, ok)
	}

	gone := waitFor(t, time.Second, func() bool {
		_, ok := store.Get("k")
		return !ok
	})
	if !gone {
		t.Error("key still present after TTL")
	}
}

func TestScheduler_LastDeletionWins(t *testing.T) {
	store := memory.New()
	q, s := startScheduler(t, store)

	store.Set("k", "a")
	_ = q.Enqueue(context.Background(), Request{Key: "k", TTL: 50 * time.Millisecond})

	time.Sleep(25 * time.Millisecond)
	store.Set("k", "b")

	// The earlier timer is not cancelled by the overwrite.
	gone := waitFor(t, time.Second, func() bool {
		_, ok := store.Get("k")
		return !ok
	})
	if !gone {
		t.Error("overwritten key should still be deleted by the earlier timer")
	}
	waitFor(t, time.Second, func() bool { return s.Pending() == 0 })
}

func TestScheduler_VersionedSkipsOverwrite(t *testing.T) {
	store := memory.New()
	reg := metric.NewRegistry()
	q, _ := startScheduler(t, store, WithMetrics(reg))

	v1 := store.Set("k", "a")
	_ = q.Enqueue(context.Background(), Request{Key: "k", TTL: 30 * time.Millisecond, Version: v1})
	store.Set("k", "b")

	if !waitFor(t, time.Second, func() bool { return fired(reg, metric.ExpirySuperseded) == 1 }) {
		t.Fatal("timer did not fire")
	}
	if v, ok := store.Get("k"); !ok || v != "b" {
		t.Errorf("Get = %q, %v; want b, true", v, ok)
	}
}

func TestScheduler_VersionedRemovesUnchanged(t *testing.T) {
	store := memory.New()
	q, _ := startScheduler(t, store)

	v1 := store.Set("k", "a")
	_ = q.Enqueue(context.Background(), Request{Key: "k", TTL: 20 * time.Millisecond, Version: v1})

	gone := waitFor(t, time.Second, func() bool {
		_, ok := store.Get("k")
		return !ok
	})
	if !gone {
		t.Error("unchanged key should expire")
	}
}

func TestScheduler_Metrics(t *testing.T) {
	store := memory.New()
	reg := metric.NewRegistry()
	q, s := startScheduler(t, store, WithMetrics(reg))

	store.Set("k", "v")
	_ = q.Enqueue(context.Background(), Request{Key: "k", TTL: 10 * time.Millisecond})
	_ = q.Enqueue(context.Background(), Request{Key: "absent", TTL: 10 * time.Millisecond})

	ok := waitFor(t, time.Second, func() bool {
		return fired(reg, metric.ExpiryRemoved) == 1 && fired(reg, metric.ExpiryMissing) == 1
	})
	if !ok {
		t.Fatalf("removed = %v, missing = %v; want 1, 1",
			fired(reg, metric.ExpiryRemoved), fired(reg, metric.ExpiryMissing))
	}
	if got := testutil.ToFloat64(reg.ExpirationsScheduled); got != 2 {
		t.Errorf("scheduled = %v, want 2", got)
	}
	if !waitFor(t, time.Second, func() bool { return s.Pending() == 0 }) {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
}

func TestScheduler_RunStopsOnClose(t *testing.T) {
	q := NewQueue(1)
	s := New(q, memory.New())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background()) }()

	q.Close()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestScheduler_ShutdownAbandonsTimers(t *testing.T) {
	store := memory.New()
	q := NewQueue(4)
	s := New(q, store)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	store.Set("k", "v")
	_ = q.Enqueue(context.Background(), Request{Key: "k", TTL: time.Hour})
	if !waitFor(t, time.Second, func() bool { return s.Pending() == 1 }) {
		t.Fatal("timer was not started")
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want Canceled", err)
	}
	s.Wait()

	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after shutdown, want 0", s.Pending())
	}
	if _, ok := store.Get("k"); !ok {
		t.Error("abandoned timer should not delete the key")
	}
}
