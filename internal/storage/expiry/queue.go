package expiry

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultQueueSize is the queue capacity used when none is configured.
const DefaultQueueSize = 1024

// ErrQueueClosed is returned by Enqueue after Close.
var ErrQueueClosed = errors.New("expiry: queue closed")

// Request asks for key to be deleted after TTL.
type Request struct {
	Key string
	TTL time.Duration
	// Version, when non-zero, restricts the delete to the entry written
	// with that version.
	Version uint64
}

// Queue is a bounded FIFO of expiration requests. Producers block while it
// is full.
type Queue struct {
	ch        chan Request
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a queue holding up to size requests.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		ch:   make(chan Request, size),
		done: make(chan struct{}),
	}
}

// Enqueue adds req, blocking until there is room, ctx is done or the queue
// is closed.
func (q *Queue) Enqueue(ctx context.Context, req Request) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case q.ch <- req:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of requests waiting to be consumed.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return cap(q.ch)
}

// Close stops the queue. Blocked producers return ErrQueueClosed and the
// scheduler stops consuming.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
}
