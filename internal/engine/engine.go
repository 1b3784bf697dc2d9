package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yndnr/rediskv-go/internal/protocol/command"
	"github.com/yndnr/rediskv-go/internal/replication"
	"github.com/yndnr/rediskv-go/internal/storage/expiry"
	"github.com/yndnr/rediskv-go/internal/telemetry/metric"
)

// Store is the key-value store the engine reads and writes.
type Store interface {
	Set(key, value string) uint64
	Get(key string) (string, bool)
}

// Expirer accepts expiration requests. *expiry.Queue implements it.
type Expirer interface {
	Enqueue(ctx context.Context, req expiry.Request) error
}

// Engine dispatches requests.
type Engine struct {
	info      command.ReplicationInfo
	store     Store
	expirer   Expirer
	supersede bool
	logger    *slog.Logger
	metrics   *metric.Registry
}

// Option configures the Engine.
type Option func(*Engine)

// WithSupersede makes a later SET invalidate expirations scheduled by
// earlier writes to the same key.
func WithSupersede(enabled bool) Option {
	return func(e *Engine) {
		e.supersede = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates an engine. The replication identity is fixed for the
// engine's lifetime.
func New(replicaID string, role replication.Role, store Store, expirer Expirer, opts ...Option) *Engine {
	e := &Engine{
		info:    replication.Info(replicaID, role),
		store:   store,
		expirer: expirer,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs req and returns its response. Command errors are returned
// as *command.Error. The only blocking step is handing a TTL to a full
// expiry queue, which honours ctx.
func (e *Engine) Execute(ctx context.Context, req command.Request) (command.Response, error) {
	start := time.Now()
	resp, err := e.dispatch(ctx, req)
	if req != nil {
		e.metrics.ObserveCommand(req.Name(), err, time.Since(start))
	}
	return resp, err
}

// ReplicationInfo returns the replication section reported by INFO.
func (e *Engine) ReplicationInfo() command.ReplicationInfo {
	return e.info
}

func (e *Engine) dispatch(ctx context.Context, req command.Request) (command.Response, error) {
	switch r := req.(type) {
	case command.Ping:
		return command.Pong{}, nil
	case command.Echo:
		return command.EchoReply{Message: r.Message}, nil
	case command.Get:
		v, ok := e.store.Get(r.Key)
		if !ok {
			return command.Nil{}, nil
		}
		return command.Str{Value: v}, nil
	case command.Set:
		return e.set(ctx, r)
	case command.CommandDocs:
		return command.Docs{}, nil
	case command.InfoReplication:
		return command.Info{Replication: e.info}, nil
	default:
		return nil, &command.Error{
			Kind:    command.KindUnsupported,
			Message: fmt.Sprintf("unsupported request %T", req),
		}
	}
}

func (e *Engine) set(ctx context.Context, r command.Set) (command.Response, error) {
	version := e.store.Set(r.Key, r.Value)
	if r.TTL <= 0 {
		return command.OK{}, nil
	}

	req := expiry.Request{Key: r.Key, TTL: r.TTL}
	if e.supersede {
		req.Version = version
	}
	if err := e.expirer.Enqueue(ctx, req); err != nil {
		// The value is stored; only its expiry was lost.
		e.logger.WarnContext(ctx, "expiry not scheduled", "key", r.Key, "ttl", r.TTL, "error", err)
		return nil, fmt.Errorf("schedule expiry: %w", err)
	}
	return command.OK{}, nil
}
