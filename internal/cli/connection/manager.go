package connection

import (
	"context"
	"time"
)

// Manager holds the current connection of an interactive session.
type Manager struct {
	timeout time.Duration
	current *Client
}

// NewManager creates a connection manager using timeout for dialing.
func NewManager(timeout time.Duration) *Manager {
	return &Manager{timeout: timeout}
}

// Connect dials addr and makes it the current connection, closing the
// previous one. On failure the previous connection is kept.
func (m *Manager) Connect(ctx context.Context, addr string) error {
	c, err := Dial(ctx, addr, m.timeout)
	if err != nil {
		return err
	}
	m.Disconnect()
	m.current = c
	return nil
}

// Disconnect closes the current connection.
func (m *Manager) Disconnect() {
	if m.current != nil {
		_ = m.current.Close()
		m.current = nil
	}
}

// Current returns the current connection, or nil.
func (m *Manager) Current() *Client {
	return m.current
}

// IsConnected reports whether a connection is open.
func (m *Manager) IsConnected() bool {
	if m.current == nil {
		return false
	}
	select {
	case <-m.current.Done():
		return false
	default:
		return true
	}
}
