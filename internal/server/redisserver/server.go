// Package redisserver serves the Redis protocol over TCP.
package redisserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/rediskv-go/internal/protocol/command"
	"github.com/yndnr/rediskv-go/internal/protocol/resp"
	"github.com/yndnr/rediskv-go/internal/telemetry/metric"
)

// Config holds the Redis server configuration.
type Config struct {
	// Address is the TCP listen address.
	Address string
	// ReadTimeout bounds reading the rest of a command once its first byte
	// has arrived (default: 30s).
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing a response (default: 30s).
	WriteTimeout time.Duration
	// IdleTimeout is how long a connection may wait between commands
	// (default: 5m).
	IdleTimeout time.Duration
	// RateLimit is the maximum number of commands per second per
	// connection. Set to 0 to disable rate limiting.
	RateLimit int
	// MaxConnections caps concurrent clients. Set to 0 for no cap.
	MaxConnections int
	// Limits bounds decoded RESP values.
	Limits resp.Limits
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:        "127.0.0.1:6379",
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    5 * time.Minute,
		RateLimit:      0,
		MaxConnections: 10000,
		Limits:         resp.DefaultLimits(),
	}
}

// Executor runs parsed requests. *engine.Engine implements it.
type Executor interface {
	Execute(ctx context.Context, req command.Request) (command.Response, error)
}

// Server represents the Redis protocol server.
type Server struct {
	cfg     *Config
	exec    Executor
	logger  *slog.Logger
	metrics *metric.Registry

	mu       sync.Mutex
	ln       net.Listener
	conns    map[*Conn]struct{}
	running  atomic.Bool
	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup
}

var (
	errServerClosed = errors.New("redisserver: server closed")
	errMaxClients   = errors.New("redisserver: max number of clients reached")
)

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new Redis protocol server.
func New(cfg *Config, exec Executor, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{
		cfg:    cfg,
		exec:   exec,
		logger: slog.Default(),
		conns:  make(map[*Conn]struct{}),
		quit:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds the listen address and serves connections in the
// background until Shutdown is called or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves connections accepted on ln in the background.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.ln != nil {
		s.mu.Unlock()
		return errors.New("redisserver: already serving")
	}
	s.ln = ln
	s.mu.Unlock()

	s.running.Store(true)
	s.logger.Info("redis server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("redis accept loop stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ActiveConnections returns the number of open client connections.
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Shutdown stops accepting, closes open connections and waits for their
// goroutines to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)
	s.quitOnce.Do(func() { close(s.quit) })

	var firstErr error

	s.mu.Lock()
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	s.mu.Unlock()
	s.closeConns()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	go func() {
		select {
		case <-ctx.Done():
			s.running.Store(false)
			_ = ln.Close()
			s.closeConns()
		case <-s.quit:
		}
	}()

	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				s.logger.Warn("accept timeout", "error", err)
				continue
			}
			return err
		}

		c := newConn(nc, s.cfg)
		if err := s.track(c); err != nil {
			s.reject(c, err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(ctx, c)
		}()
	}
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.Close()
	}
}

// track registers c. Shutdown sets running before taking mu, so a
// connection is either closed by Shutdown or refused here.
func (s *Server) track(c *Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return errServerClosed
	}
	if s.cfg.MaxConnections > 0 && len(s.conns) >= s.cfg.MaxConnections {
		return errMaxClients
	}
	s.conns[c] = struct{}{}
	s.metrics.ConnOpened()
	return nil
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.metrics.ConnClosed()
}

func (s *Server) reject(c *Conn, reason error) {
	defer c.Close()
	if !errors.Is(reason, errMaxClients) {
		return
	}
	s.logger.Warn("max number of clients reached", "remote", c.RemoteAddr().String(), "max", s.cfg.MaxConnections)
	_ = c.stream.SetWriteDeadline(time.Now().Add(s.cfg.writeTimeout()))
	_ = c.stream.WriteError("ERR max number of clients reached")
	_ = c.stream.Flush()
}

func (c *Config) readTimeout() time.Duration {
	if c.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return c.ReadTimeout
}

func (c *Config) writeTimeout() time.Duration {
	if c.WriteTimeout <= 0 {
		return 30 * time.Second
	}
	return c.WriteTimeout
}

func (c *Config) idleTimeout() time.Duration {
	if c.IdleTimeout <= 0 {
		return 5 * time.Minute
	}
	return c.IdleTimeout
}
