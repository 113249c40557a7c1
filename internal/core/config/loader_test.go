package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/blockpulse/internal/core/domain"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()

	return tmpFile.Name()
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_NODE_URL", "https://node.example.org/rpc")

	path := writeTempConfig(t, `
rpc:
  url: ${TEST_NODE_URL}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.RPC.URL != "https://node.example.org/rpc" {
		t.Errorf("Expected URL https://node.example.org/rpc, got %s", cfg.RPC.URL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RPC_URL", "")

	path := writeTempConfig(t, `
rpc:
  url: http://localhost:8545
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.RPC.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %s", cfg.RPC.Timeout)
	}
	if cfg.Pulse.WindowSize != 20 {
		t.Errorf("expected window size 20, got %d", cfg.Pulse.WindowSize)
	}
	if cfg.Pulse.Pairing != domain.PairingFetchOrder {
		t.Errorf("expected fetch_order pairing, got %s", cfg.Pulse.Pairing)
	}
	if cfg.Monitor.Interval != 60*time.Second {
		t.Errorf("expected interval 60s, got %s", cfg.Monitor.Interval)
	}
	if cfg.Server.Port != 0 {
		t.Errorf("expected server disabled by default, got port %d", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeTempConfig(t, `
rpc:
  url: http://localhost:8545
  timeout: 3s
  rate_limit: 5
pulse:
  window_size: 50
  pairing: adjacent
monitor:
  interval: 15s
  max_cycles: 4
server:
  port: 9090
redis:
  url: redis://localhost:6379/0
  history_size: 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.RPC.Timeout != 3*time.Second || cfg.RPC.RateLimit != 5 {
		t.Errorf("unexpected rpc config: %+v", cfg.RPC)
	}
	if cfg.Pulse.WindowSize != 50 || cfg.Pulse.Pairing != domain.PairingAdjacent {
		t.Errorf("unexpected pulse config: %+v", cfg.Pulse)
	}
	if cfg.Monitor.Interval != 15*time.Second || cfg.Monitor.MaxCycles != 4 {
		t.Errorf("unexpected monitor config: %+v", cfg.Monitor)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" || cfg.Redis.HistorySize != 10 {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Redis.TTL != DefaultHistoryTTL {
		t.Errorf("expected default history ttl, got %s", cfg.Redis.TTL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/blockpulse.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_EmptyPathUsesEnvURL(t *testing.T) {
	t.Setenv("RPC_URL", "http://env-node:8545")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RPC.URL != "http://env-node:8545" {
		t.Errorf("expected url from RPC_URL, got %q", cfg.RPC.URL)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("RPC_URL", "")

	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{"missing url", func(c *AppConfig) { c.RPC.URL = "" }, "rpc.url is required"},
		{"negative window", func(c *AppConfig) { c.Pulse.WindowSize = -1 }, "pulse.window_size"},
		{"unknown pairing", func(c *AppConfig) { c.Pulse.Pairing = "sorted" }, "pulse.pairing"},
		{"negative interval", func(c *AppConfig) { c.Monitor.Interval = -time.Second }, "monitor.interval"},
		{"negative rate limit", func(c *AppConfig) { c.RPC.RateLimit = -1 }, "rpc.rate_limit"},
		{"port out of range", func(c *AppConfig) { c.Server.Port = 70000 }, "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AppConfig{RPC: RPCConfig{URL: "http://localhost:8545"}}
			cfg.ApplyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_SingleBlockWindow(t *testing.T) {
	cfg := &AppConfig{RPC: RPCConfig{URL: "http://localhost:8545"}}
	cfg.ApplyDefaults()
	cfg.Pulse.WindowSize = 1

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected window of 1 to be accepted, got %v", err)
	}
}

func TestNodeName(t *testing.T) {
	tests := []struct {
		name string
		rpc  RPCConfig
		want string
	}{
		{"explicit", RPCConfig{Name: "mainnet", URL: "https://eth.example.org"}, "mainnet"},
		{"from host", RPCConfig{URL: "https://eth.example.org:8545/v1"}, "eth.example.org"},
		{"fallback", RPCConfig{URL: "::bad"}, "node"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AppConfig{RPC: tt.rpc}
			if got := cfg.NodeName(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
