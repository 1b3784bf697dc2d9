package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/rediskv-go/internal/replication"
	"github.com/yndnr/rediskv-go/pkg/cmap"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	var errs []error
	errs = append(errs, verifyServer(&cfg.Server)...)
	errs = append(errs, verifyExpiry(&cfg.Expiry)...)
	errs = append(errs, verifyStore(&cfg.Store)...)
	errs = append(errs, verifyReplication(&cfg.Replication)...)
	errs = append(errs, verifyAdmin(&cfg.Admin)...)
	errs = append(errs, verifyLog(&cfg.Log)...)
	return errors.Join(errs...)
}

func verifyServer(cfg *ServerSection) []error {
	var errs []error
	if err := verifyAddr("server.addr", cfg.Addr); err != nil {
		errs = append(errs, err)
	}
	if _, err := replication.ParseReplicaOf(cfg.ReplicaOf); err != nil {
		errs = append(errs, fmt.Errorf("server.replica_of: %w", err))
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.IdleTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must not be negative"))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit must not be negative"))
	}
	if cfg.MaxConnections < 0 {
		errs = append(errs, errors.New("server.max_connections must not be negative"))
	}
	return errs
}

func verifyExpiry(cfg *ExpirySection) []error {
	if cfg.QueueSize < 1 {
		return []error{errors.New("expiry.queue_size must be at least 1")}
	}
	return nil
}

func verifyStore(cfg *StoreSection) []error {
	if !cmap.IsValidShardCount(cfg.Shards) {
		return []error{fmt.Errorf("store.shards must be a power of two, got %d", cfg.Shards)}
	}
	return nil
}

func verifyReplication(cfg *ReplicationSection) []error {
	if cfg.ReplicaID == "" {
		return nil
	}
	if len(cfg.ReplicaID) != replication.ReplicaIDLength {
		return []error{fmt.Errorf("replication.replica_id must be %d hex characters", replication.ReplicaIDLength)}
	}
	if _, err := hex.DecodeString(cfg.ReplicaID); err != nil {
		return []error{errors.New("replication.replica_id must be hex")}
	}
	return nil
}

func verifyAdmin(cfg *AdminSection) []error {
	if !cfg.Enabled {
		return nil
	}
	if err := verifyAddr("admin.addr", cfg.Addr); err != nil {
		return []error{err}
	}
	return nil
}

func verifyLog(cfg *LogSection) []error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return []error{fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)}
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return []error{fmt.Errorf("log.format %q is not json or text", cfg.Format)}
	}
	return nil
}

func verifyAddr(name, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", name)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
