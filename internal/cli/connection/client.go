package connection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/edwingeng/deque/v2"

	"github.com/yndnr/rediskv-go/internal/protocol/command"
	"github.com/yndnr/rediskv-go/internal/protocol/resp"
	"github.com/yndnr/rediskv-go/internal/protocol/stream"
)

const (
	// DefaultDialTimeout bounds connecting to the server.
	DefaultDialTimeout = 5 * time.Second

	// DefaultMaxPending caps requests sent but not yet answered.
	DefaultMaxPending = 1024
)

var (
	// ErrClosed is returned for requests on a closed client.
	ErrClosed = errors.New("connection closed")

	// ErrOverloaded is returned when too many requests are in flight.
	ErrOverloaded = errors.New("connection overloaded")
)

// Result is the outcome of one request.
type Result struct {
	Value resp.Value
	Err   error
}

// Client is a pipelined RESP client. Send may be called from many
// goroutines; replies are delivered in request order.
type Client struct {
	addr       string
	maxPending int

	mu      sync.Mutex
	s       *stream.Stream
	pending *deque.Deque[chan Result]
	err     error

	done chan struct{}
}

// Option configures a Client.
type Option func(*Client)

// WithMaxPending sets the in-flight request cap.
func WithMaxPending(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPending = n
		}
	}
}

// Dial connects to addr.
func Dial(ctx context.Context, addr string, timeout time.Duration, opts ...Option) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	s, err := stream.Dial(ctx, addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return newClient(addr, s, opts...), nil
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn, opts ...Option) *Client {
	return newClient(conn.RemoteAddr().String(), stream.New(conn, resp.DefaultLimits()), opts...)
}

func newClient(addr string, s *stream.Stream, opts ...Option) *Client {
	c := &Client{
		addr:       addr,
		maxPending: DefaultMaxPending,
		s:          s,
		pending:    deque.NewDeque[chan Result](),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.listen()
	return c
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Send writes v and returns a channel that receives its reply.
func (c *Client) Send(v resp.Value) <-chan Result {
	rc := make(chan Result, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		rc <- Result{Err: c.err}
		return rc
	}
	if c.pending.Len() >= c.maxPending {
		rc <- Result{Err: ErrOverloaded}
		return rc
	}
	err := c.s.WriteValue(v)
	if err == nil {
		err = c.s.Flush()
	}
	if err != nil {
		// A partial write leaves the stream unusable.
		c.failLocked(fmt.Errorf("write to %s: %w", c.addr, err))
		_ = c.s.Close()
		rc <- Result{Err: err}
		return rc
	}
	c.pending.PushFront(rc)
	return rc
}

// Do sends v and waits for its reply.
func (c *Client) Do(ctx context.Context, v resp.Value) (resp.Value, error) {
	select {
	case r := <-c.Send(v):
		return r.Value, r.Err
	case <-ctx.Done():
		return resp.Value{}, ctx.Err()
	}
}

// Request sends a typed request and waits for its reply.
func (c *Client) Request(ctx context.Context, req command.Request) (resp.Value, error) {
	return c.Do(ctx, command.RequestValue(req))
}

// DoArgs sends args as an array of bulk strings, the form redis-cli uses.
func (c *Client) DoArgs(ctx context.Context, args ...string) (resp.Value, error) {
	elems := make([]resp.Value, len(args))
	for i, a := range args {
		elems[i] = resp.BulkText(a)
	}
	return c.Do(ctx, resp.Array(elems...))
}

// Pending returns the number of requests awaiting a reply.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending.Len()
}

// Close closes the connection and fails every pending request.
func (c *Client) Close() error {
	err := c.s.Close()
	c.fail(ErrClosed)
	<-c.done
	return err
}

// Done is closed once the client has stopped reading.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) listen() {
	defer close(c.done)
	for {
		v, err := c.s.ReadValue()
		if err != nil {
			c.fail(fmt.Errorf("read from %s: %w", c.addr, err))
			_ = c.s.Close()
			return
		}

		c.mu.Lock()
		if c.pending.Len() == 0 {
			c.mu.Unlock()
			c.fail(fmt.Errorf("unexpected reply from %s: %s", c.addr, v))
			_ = c.s.Close()
			return
		}
		rc := c.pending.PopBack()
		c.mu.Unlock()

		rc <- Result{Value: v}
	}
}

// fail records err as the terminal error and drains pending requests.
func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failLocked(err)
}

func (c *Client) failLocked(err error) {
	if c.err == nil {
		c.err = err
	}
	for c.pending.Len() > 0 {
		c.pending.PopBack() <- Result{Err: c.err}
	}
}
