package config

import (
	"log/slog"

	"github.com/yndnr/rediskv-go/internal/protocol/resp"
	"github.com/yndnr/rediskv-go/internal/replication"
	"github.com/yndnr/rediskv-go/internal/server/redisserver"
)

// ResolveRole returns the replication role named by server.replica_of.
func ResolveRole(cfg *ServerConfig) (replication.Role, error) {
	return replication.ParseReplicaOf(cfg.Server.ReplicaOf)
}

// ResolveReplicaID returns the configured replica id, generating one if
// none is set.
func ResolveReplicaID(cfg *ServerConfig, logger *slog.Logger) (string, error) {
	if cfg.Replication.ReplicaID != "" {
		return cfg.Replication.ReplicaID, nil
	}
	id, err := replication.GenerateReplicaID()
	if err != nil {
		return "", err
	}
	if logger != nil {
		logger.Debug("generated replica id", "replica_id", id)
	}
	return id, nil
}

// ToRedisConfig converts the server section to a redisserver.Config.
func ToRedisConfig(cfg *ServerConfig) *redisserver.Config {
	return &redisserver.Config{
		Address:        cfg.Server.Addr,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		RateLimit:      cfg.Server.RateLimit,
		MaxConnections: cfg.Server.MaxConnections,
		Limits:         resp.DefaultLimits(),
	}
}
