package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr       = "127.0.0.1:6379"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 5 * time.Minute
	DefaultMaxConnections  = 10000
	DefaultShutdownTimeout = 10 * time.Second

	DefaultExpiryQueueSize = 1024
	DefaultStoreShards     = 16

	DefaultHandshakeTimeout = 5 * time.Second

	DefaultAdminAddr = "127.0.0.1:9121"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Addr:            DefaultRedisAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			MaxConnections:  DefaultMaxConnections,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Expiry: ExpirySection{
			QueueSize: DefaultExpiryQueueSize,
		},
		Store: StoreSection{
			Shards: DefaultStoreShards,
		},
		Replication: ReplicationSection{
			HandshakeTimeout: DefaultHandshakeTimeout,
		},
		Admin: AdminSection{
			Enabled: false,
			Addr:    DefaultAdminAddr,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
