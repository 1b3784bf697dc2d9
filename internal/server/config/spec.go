package config

import "time"

// ServerConfig is the root configuration for rediskv-server.
type ServerConfig struct {
	Server      ServerSection      `koanf:"server"`
	Expiry      ExpirySection      `koanf:"expiry"`
	Store       StoreSection       `koanf:"store"`
	Replication ReplicationSection `koanf:"replication"`
	Admin       AdminSection       `koanf:"admin"`
	Log         LogSection         `koanf:"log"`
}

// ServerSection configures the Redis protocol listener.
type ServerSection struct {
	// Addr is the TCP listen address.
	Addr string `koanf:"addr"`

	// ReplicaOf is the master to follow, as "host port". Empty means this
	// server is a master.
	ReplicaOf string `koanf:"replica_of"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// RateLimit is commands per second per connection; 0 disables it.
	RateLimit int `koanf:"rate_limit"`

	// MaxConnections caps concurrent clients; 0 means no cap.
	MaxConnections int `koanf:"max_connections"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// ExpirySection configures the expiration scheduler.
type ExpirySection struct {
	// QueueSize is the capacity of the expiration queue. SET with a TTL
	// blocks while the queue is full.
	QueueSize int `koanf:"queue_size"`

	// SupersedeOnOverwrite makes a later SET cancel expirations scheduled
	// by earlier writes to the same key.
	SupersedeOnOverwrite bool `koanf:"supersede_on_overwrite"`
}

// StoreSection configures the in-memory store.
type StoreSection struct {
	// Shards is the number of lock shards; must be a power of two.
	Shards int `koanf:"shards"`
}

// ReplicationSection configures replication identity and handshake.
type ReplicationSection struct {
	// ReplicaID fixes the 40 hex character replication id. Empty means
	// one is generated at startup.
	ReplicaID string `koanf:"replica_id"`

	// HandshakeTimeout bounds dialing the master and waiting for PONG.
	HandshakeTimeout time.Duration `koanf:"handshake_timeout"`
}

// AdminSection configures the HTTP admin endpoint.
type AdminSection struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
