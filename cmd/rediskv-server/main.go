package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rediskv-go/internal/engine"
	"github.com/yndnr/rediskv-go/internal/infra/buildinfo"
	"github.com/yndnr/rediskv-go/internal/infra/confloader"
	"github.com/yndnr/rediskv-go/internal/infra/shutdown"
	"github.com/yndnr/rediskv-go/internal/replication"
	"github.com/yndnr/rediskv-go/internal/server/adminserver"
	"github.com/yndnr/rediskv-go/internal/server/config"
	"github.com/yndnr/rediskv-go/internal/server/redisserver"
	"github.com/yndnr/rediskv-go/internal/storage/expiry"
	"github.com/yndnr/rediskv-go/internal/storage/memory"
	"github.com/yndnr/rediskv-go/internal/telemetry/logger"
	"github.com/yndnr/rediskv-go/internal/telemetry/metric"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, buildinfo.String())
	}
	return &cli.App{
		Name:    "rediskv-server",
		Usage:   "Redis protocol key-value server",
		Version: buildinfo.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				EnvVars: []string{"REDISKV_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (host:port)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port, replacing the port of --addr",
			},
			&cli.StringFlag{
				Name:  "replicaof",
				Usage: `Master to replicate, as "host port"`,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	configFile := c.String("config")

	overrides := flagOverrides(c)
	cfg, err := loadConfig(configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	role, err := config.ResolveRole(cfg)
	if err != nil {
		return err
	}
	replicaID, err := config.ResolveReplicaID(cfg, log)
	if err != nil {
		return fmt.Errorf("replica id: %w", err)
	}

	log.Info("starting rediskv-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", configFile,
		"role", role.Name())

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	metrics := metric.NewRegistry()
	store := memory.New(memory.WithShards(cfg.Store.Shards))
	metrics.MustRegister(metric.NewKeyspaceCollector(store))

	// Expiration scheduler
	queue := expiry.NewQueue(cfg.Expiry.QueueSize)
	scheduler := expiry.New(queue, store,
		expiry.WithLogger(log),
		expiry.WithMetrics(metrics))
	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("expiration scheduler stopped", "error", err)
		}
	}()

	eng := engine.New(replicaID, role, store, queue,
		engine.WithSupersede(cfg.Expiry.SupersedeOnOverwrite),
		engine.WithLogger(log),
		engine.WithMetrics(metrics))

	redisServer := redisserver.New(config.ToRedisConfig(cfg), eng,
		redisserver.WithLogger(log),
		redisserver.WithMetrics(metrics))
	if err := redisServer.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}

	var adminServer *adminserver.Server
	if cfg.Admin.Enabled {
		router := adminserver.NewRouter(&adminserver.RouterConfig{
			Metrics:     metrics.Handler(),
			Replication: eng.ReplicationInfo,
			Logger:      log,
		})
		adminServer = adminserver.New(cfg.Admin.Addr, router, log)
		if err := adminServer.Start(); err != nil {
			_ = redisServer.Shutdown(context.Background())
			return fmt.Errorf("start admin server: %w", err)
		}
	}

	replicator := replication.NewReplicator(replicaID, role,
		replication.WithLogger(log),
		replication.WithMetrics(metrics),
		replication.WithTimeout(cfg.Replication.HandshakeTimeout))
	if role.IsReplica() {
		go func() {
			if err := replicator.Handshake(ctx); err != nil {
				log.Error("master handshake failed", "master", role.MasterAddr(), "error", err)
			}
		}()
	}

	if configFile != "" {
		watchConfig(ctx, configFile, overrides, log)
	}

	// Hooks run in reverse order of registration.
	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log)

	shutdownHandler.OnShutdown("expiry", func(ctx context.Context) error {
		cancel()
		queue.Close()
		select {
		case <-schedDone:
			scheduler.Wait()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	shutdownHandler.OnShutdown("replication", func(context.Context) error {
		return replicator.Close()
	})

	shutdownHandler.OnShutdown("redis server", func(ctx context.Context) error {
		log.Info("shutting down redis server")
		return redisServer.Shutdown(ctx)
	})

	if adminServer != nil {
		shutdownHandler.OnShutdown("admin server", func(ctx context.Context) error {
			log.Info("shutting down admin server")
			return adminServer.Shutdown(ctx)
		})
	}

	log.Info("server started", "addr", redisServer.Addr().String())
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// flagOverrides returns the flags set on the command line as dotted
// config keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	if c.IsSet("addr") {
		overrides["server.addr"] = c.String("addr")
	}
	if c.IsSet("port") {
		overrides["server.port"] = c.Int("port")
	}
	if c.IsSet("replicaof") {
		overrides["server.replica_of"] = c.String("replicaof")
	}
	if c.IsSet("log-level") {
		overrides["log.level"] = c.String("log-level")
	}
	return overrides
}

// loadConfig layers defaults, the config file, the environment and flag
// overrides, then validates the result.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	loader := confloader.NewLoader(opts...)

	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	layered := make(map[string]any, len(overrides))
	for k, v := range overrides {
		layered[k] = v
	}
	port, hasPort := layered["server.port"]
	delete(layered, "server.port")
	if len(layered) > 0 {
		if err := loader.LoadMap(layered); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}
	if hasPort {
		addr, err := withPort(cfg.Server.Addr, port.(int))
		if err != nil {
			return nil, err
		}
		cfg.Server.Addr = addr
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// withPort replaces the port of addr.
func withPort(addr string, port int) (string, error) {
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid port %d", port)
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("server.addr: %w", err)
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

// initLogger creates the process logger and installs it as the default.
func initLogger(cfg *config.ServerConfig) (*slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)
	return log, nil
}

// watchConfig re-reads the config file on change and applies log.level.
func watchConfig(ctx context.Context, path string, overrides map[string]any, log *slog.Logger) {
	watcher, err := confloader.NewWatcher(path, confloader.WithWatcherLogger(log))
	if err != nil {
		log.Warn("config hot reload disabled", "path", path, "error", err)
		return
	}
	watcher.OnChange(func(path string) {
		if err := reloadConfig(path, overrides, log); err != nil {
			log.Warn("config reload rejected", "path", path, "error", err)
		}
	})
	go func() {
		defer watcher.Stop()
		watcher.Run(ctx)
	}()
}

// reloadConfig applies the reloadable settings of path. Flags given at
// startup keep precedence over the file.
func reloadConfig(path string, overrides map[string]any, log *slog.Logger) error {
	cfg, err := loadConfig(path, overrides)
	if err != nil {
		return err
	}
	changed, err := logger.SetLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if changed {
		log.Info("log level changed", "level", cfg.Log.Level)
	}
	return nil
}
