package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/rediskv-go/internal/telemetry/logger"
)

func TestLoadConfig_Layers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rediskv.yaml")
	content := "server:\n  addr: 127.0.0.1:7000\n  replica_of: \"localhost 6379\"\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REDISKV_STORE_SHARDS", "32")

	cfg, err := loadConfig(path, map[string]any{
		"server.port": 7001,
		"log.level":   "warn",
	})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:7001" {
		t.Errorf("Server.Addr = %q, want 127.0.0.1:7001", cfg.Server.Addr)
	}
	if cfg.Server.ReplicaOf != "localhost 6379" {
		t.Errorf("Server.ReplicaOf = %q", cfg.Server.ReplicaOf)
	}
	if cfg.Store.Shards != 32 {
		t.Errorf("Store.Shards = %d, want 32 from env", cfg.Store.Shards)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want flag override warn", cfg.Log.Level)
	}
	if cfg.Expiry.QueueSize != 1024 {
		t.Errorf("Expiry.QueueSize = %d, want default 1024", cfg.Expiry.QueueSize)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	if _, err := loadConfig("", map[string]any{"server.replica_of": "nohost"}); err == nil {
		t.Error("loadConfig() should reject a malformed replica_of")
	}
	if _, err := loadConfig("", map[string]any{"server.port": 70000}); err == nil {
		t.Error("loadConfig() should reject an out of range port")
	}
}

func TestWithPort(t *testing.T) {
	tests := []struct {
		addr    string
		port    int
		want    string
		wantErr bool
	}{
		{"127.0.0.1:6379", 6380, "127.0.0.1:6380", false},
		{":6379", 7000, ":7000", false},
		{"[::1]:6379", 7000, "[::1]:7000", false},
		{"127.0.0.1", 7000, "", true},
		{"127.0.0.1:6379", 0, "", true},
	}
	for _, tt := range tests {
		got, err := withPort(tt.addr, tt.port)
		if (err != nil) != tt.wantErr {
			t.Errorf("withPort(%q, %d) error = %v, wantErr %v", tt.addr, tt.port, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("withPort(%q, %d) = %q, want %q", tt.addr, tt.port, got, tt.want)
		}
	}
}

func TestLoadConfig_KeepsOverrides(t *testing.T) {
	overrides := map[string]any{"server.port": 7001}
	if _, err := loadConfig("", overrides); err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if _, ok := overrides["server.port"]; !ok {
		t.Error("loadConfig() consumed the caller's overrides")
	}
}

func TestLoadConfig_IgnoresCLIServerEnv(t *testing.T) {
	t.Setenv("REDISKV_SERVER", "127.0.0.1:6379")

	if _, err := loadConfig("", nil); err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
}

func TestReloadConfig_FlagsWin(t *testing.T) {
	defer logger.SetLevel("info")
	log, err := logger.New(logger.Config{Level: "info", Output: io.Discard})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "rediskv.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0600); err != nil {
		t.Fatal(err)
	}
	overrides := map[string]any{"log.level": "error", "server.port": 7001}

	if err := reloadConfig(path, overrides, log); err != nil {
		t.Fatalf("reloadConfig() error = %v", err)
	}
	if log.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("file level replaced the --log-level override")
	}

	if err := reloadConfig(path, nil, log); err != nil {
		t.Fatalf("reloadConfig() error = %v", err)
	}
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("file level not applied without an override")
	}
}
