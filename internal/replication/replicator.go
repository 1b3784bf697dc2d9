package replication

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yndnr/rediskv-go/internal/protocol/command"
	"github.com/yndnr/rediskv-go/internal/protocol/stream"
	"github.com/yndnr/rediskv-go/internal/telemetry/metric"
)

// DefaultHandshakeTimeout bounds dialing the master and waiting for PONG.
const DefaultHandshakeTimeout = 5 * time.Second

// ErrNotReplica is returned by Handshake when the role is master.
var ErrNotReplica = errors.New("replication: not configured as a replica")

// ErrUnexpectedReply is returned when the master answers PING with
// something other than PONG.
var ErrUnexpectedReply = errors.New("replication: unexpected handshake reply")

// Replicator connects a replica to its master.
type Replicator struct {
	replicaID string
	role      Role
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metric.Registry

	mu     sync.Mutex
	master *stream.Stream
}

// Option configures the Replicator.
type Option func(*Replicator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Replicator) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(r *Replicator) {
		r.metrics = m
	}
}

// WithTimeout sets the handshake timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Replicator) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewReplicator creates a replicator for a server with the given id and role.
func NewReplicator(replicaID string, role Role, opts ...Option) *Replicator {
	r := &Replicator{
		replicaID: replicaID,
		role:      role,
		timeout:   DefaultHandshakeTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handshake dials the master and sends PING. On success the connection is
// kept open until Close.
func (r *Replicator) Handshake(ctx context.Context) (err error) {
	if !r.role.IsReplica() {
		return ErrNotReplica
	}
	addr := r.role.MasterAddr()
	defer func() { r.metrics.ObserveHandshake(err) }()

	r.logger.Info("replicating", "master", addr, "replica_id", r.replicaID)

	s, err := stream.Dial(ctx, addr, r.timeout)
	if err != nil {
		return fmt.Errorf("dial master %s: %w", addr, err)
	}

	deadline := time.Now().Add(r.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := s.SetDeadline(deadline); err != nil {
		_ = s.Close()
		return fmt.Errorf("set deadline: %w", err)
	}
	// Cancelling ctx unblocks a PING exchange in progress.
	stop := context.AfterFunc(ctx, func() { _ = s.SetDeadline(time.Now()) })
	reply, err := s.Do(command.Ping{})
	if !stop() {
		_ = s.Close()
		return fmt.Errorf("ping master %s: %w", addr, context.Cause(ctx))
	}
	if err != nil {
		_ = s.Close()
		return fmt.Errorf("ping master %s: %w", addr, err)
	}
	if _, ok := reply.(command.Pong); !ok {
		_ = s.Close()
		return fmt.Errorf("%w: %T", ErrUnexpectedReply, reply)
	}
	_ = s.SetDeadline(time.Time{})

	r.mu.Lock()
	if r.master != nil {
		_ = r.master.Close()
	}
	r.master = s
	r.mu.Unlock()

	r.logger.Info("master handshake complete", "master", addr)
	return nil
}

// Close closes the master connection, if any.
func (r *Replicator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.master == nil {
		return nil
	}
	err := r.master.Close()
	r.master = nil
	return err
}
