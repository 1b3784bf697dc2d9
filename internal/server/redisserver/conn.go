// Package redisserver serves the Redis protocol over TCP.
package redisserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/rediskv-go/internal/protocol/command"
	"github.com/yndnr/rediskv-go/internal/protocol/resp"
	"github.com/yndnr/rediskv-go/internal/protocol/stream"
	"github.com/yndnr/rediskv-go/internal/telemetry/logger"
)

// Conn represents a single Redis client connection.
type Conn struct {
	id      string
	stream  *stream.Stream
	limiter *rate.Limiter
}

func newConn(nc net.Conn, cfg *Config) *Conn {
	c := &Conn{
		id:     ulid.Make().String(),
		stream: stream.New(nc, cfg.Limits),
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}
	return c
}

// ID returns the connection id.
func (c *Conn) ID() string {
	return c.id
}

// Close closes the connection. It is safe to call more than once.
func (c *Conn) Close() error {
	return c.stream.Close()
}

// RemoteAddr returns the client address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.stream.RemoteAddr()
}

// serveConn runs the request loop for c until the peer disconnects, a
// protocol or I/O error occurs, or ctx is cancelled.
func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	ctx = logger.WithConnID(ctx, c.id)
	log := s.logger.With("remote", c.RemoteAddr().String())
	log.DebugContext(ctx, "connection opened")
	defer log.DebugContext(ctx, "connection closed")

	for {
		if ctx.Err() != nil {
			return
		}

		// Between commands the connection may stay idle; once a command
		// starts it must arrive within the read timeout.
		if !c.stream.Pending() {
			if err := c.stream.SetReadDeadline(time.Now().Add(s.cfg.idleTimeout())); err != nil {
				return
			}
			if err := c.stream.WaitReadable(); err != nil {
				s.logReadError(ctx, log, err)
				return
			}
		}
		if err := c.stream.SetReadDeadline(time.Now().Add(s.cfg.readTimeout())); err != nil {
			return
		}

		keepOpen := s.handle(ctx, log, c)

		if !keepOpen || !c.stream.Pending() {
			if err := c.stream.SetWriteDeadline(time.Now().Add(s.cfg.writeTimeout())); err != nil {
				return
			}
			if err := c.stream.Flush(); err != nil {
				log.DebugContext(ctx, "flush failed", "error", err)
				return
			}
		}
		if !keepOpen {
			return
		}
	}
}

// handle reads and answers one request. It reports whether the connection
// should stay open.
func (s *Server) handle(ctx context.Context, log *slog.Logger, c *Conn) bool {
	req, err := c.stream.ReadRequest()
	if err == nil {
		if c.limiter != nil && !c.limiter.Allow() {
			return s.writeError(ctx, log, c, "ERR rate limit exceeded")
		}
		var reply command.Response
		reply, err = s.exec.Execute(ctx, req)
		if err == nil {
			if err := c.stream.WriteResponse(reply); err != nil {
				log.ErrorContext(ctx, "encode reply failed", "command", req.Name(), "error", err)
				return false
			}
			return true
		}
	}

	var ce *command.Error
	switch {
	case errors.As(err, &ce):
		log.DebugContext(ctx, "command rejected", "kind", string(ce.Kind), "error", ce.Message)
		return s.writeError(ctx, log, c, ce.Reply())

	case errors.Is(err, resp.ErrProtocol), errors.Is(err, resp.ErrLimitExceeded):
		s.metrics.IncProtocolError()
		log.WarnContext(ctx, "protocol error", "error", err)
		s.writeError(ctx, log, c, protocolReply(err))
		return false

	case isClosed(err):
		return false

	default:
		log.ErrorContext(ctx, "command failed", "error", err)
		s.writeError(ctx, log, c, "ERR "+err.Error())
		return false
	}
}

func (s *Server) writeError(ctx context.Context, log *slog.Logger, c *Conn, msg string) bool {
	if err := c.stream.WriteError(msg); err != nil {
		log.DebugContext(ctx, "write error reply failed", "error", err)
		return false
	}
	return true
}

func (s *Server) logReadError(ctx context.Context, log *slog.Logger, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
	case errors.As(err, &netErr) && netErr.Timeout():
		log.DebugContext(ctx, "connection timed out")
	default:
		log.DebugContext(ctx, "connection read error", "error", err)
	}
}

func isClosed(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// protocolReply formats a decoding failure the way Redis reports it.
func protocolReply(err error) string {
	msg := err.Error()
	msg = strings.TrimPrefix(msg, resp.ErrProtocol.Error()+": ")
	msg = strings.TrimPrefix(msg, "resp: ")
	return "ERR Protocol error: " + msg
}
