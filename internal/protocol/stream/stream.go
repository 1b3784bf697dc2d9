package stream

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/yndnr/rediskv-go/internal/protocol/command"
	"github.com/yndnr/rediskv-go/internal/protocol/resp"
)

// Stream is a RESP stream over a net.Conn. The read side and the write
// side may each be owned by a different goroutine; neither side is safe
// for concurrent use on its own.
type Stream struct {
	conn   net.Conn
	r      *resp.Reader
	w      *resp.Writer
	closed atomic.Bool
}

// New wraps conn using the given decoding limits.
func New(conn net.Conn, limits resp.Limits) *Stream {
	return &Stream{
		conn: conn,
		r:    resp.NewReaderWithLimits(conn, limits),
		w:    resp.NewWriter(conn),
	}
}

// Dial opens a TCP connection to addr and wraps it with default limits.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Stream, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(conn, resp.DefaultLimits()), nil
}

// ReadValue decodes the next RESP value.
func (s *Stream) ReadValue() (resp.Value, error) {
	return s.r.ReadValue()
}

// WriteValue buffers v.
func (s *Stream) WriteValue(v resp.Value) error {
	return s.w.WriteValue(v)
}

// ReadRequest decodes the next value and translates it into a request.
//
// Translation failures are returned as *command.Error after the whole value
// has been consumed, so the stream stays usable. Decoding failures leave the
// stream in an undefined position and the caller should close it.
func (s *Stream) ReadRequest() (command.Request, error) {
	v, err := s.r.ReadValue()
	if err != nil {
		return nil, err
	}
	return command.ParseRequest(v)
}

// WriteRequest buffers the canonical encoding of req.
func (s *Stream) WriteRequest(req command.Request) error {
	return s.w.WriteValue(command.RequestValue(req))
}

// ReadResponse decodes the next value and interprets it as a reply.
func (s *Stream) ReadResponse() (command.Response, error) {
	v, err := s.r.ReadValue()
	if err != nil {
		return nil, err
	}
	return command.ParseResponse(v)
}

// WriteResponse buffers the encoding of r.
func (s *Stream) WriteResponse(r command.Response) error {
	return s.w.WriteValue(command.ResponseValue(r))
}

// WriteError buffers a RESP error reply.
func (s *Stream) WriteError(msg string) error {
	return s.w.WriteValue(resp.Error(msg))
}

// Do writes req, flushes and reads the reply.
func (s *Stream) Do(req command.Request) (command.Response, error) {
	if err := s.WriteRequest(req); err != nil {
		return nil, err
	}
	if err := s.Flush(); err != nil {
		return nil, err
	}
	return s.ReadResponse()
}

// Flush writes buffered output to the connection.
func (s *Stream) Flush() error {
	return s.w.Flush()
}

// Pending reports whether decoded-but-unread input is already buffered,
// which is the case for pipelined requests.
func (s *Stream) Pending() bool {
	return s.r.Buffered() > 0
}

// WaitReadable blocks until at least one byte can be read.
func (s *Stream) WaitReadable() error {
	return s.r.Peek()
}

// SetDeadline sets the read and write deadlines of the underlying connection.
func (s *Stream) SetDeadline(t time.Time) error {
	return s.conn.SetDeadline(t)
}

// SetReadDeadline sets the read deadline of the underlying connection.
func (s *Stream) SetReadDeadline(t time.Time) error {
	return s.conn.SetReadDeadline(t)
}

// SetWriteDeadline sets the write deadline of the underlying connection.
func (s *Stream) SetWriteDeadline(t time.Time) error {
	return s.conn.SetWriteDeadline(t)
}

// RemoteAddr returns the peer address.
func (s *Stream) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

// Close closes the connection. It is safe to call more than once.
func (s *Stream) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.conn.Close()
}
