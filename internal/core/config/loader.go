package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/blockpulse/internal/core/domain"
)

const (
	DefaultRPCTimeout      = 10 * time.Second
	DefaultWindowSize      = 20
	DefaultMonitorInterval = 60 * time.Second
	DefaultHistorySize     = 1000
	DefaultHistoryTTL      = 24 * time.Hour
)

// Load reads configuration from a YAML file.
// An empty path yields the defaults, which still need an RPC URL before Validate passes.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills every zero-valued setting that has a default.
func (c *AppConfig) ApplyDefaults() {
	if c.RPC.URL == "" {
		c.RPC.URL = os.Getenv("RPC_URL")
	}
	if c.RPC.Timeout == 0 {
		c.RPC.Timeout = DefaultRPCTimeout
	}
	if c.Pulse.WindowSize == 0 {
		c.Pulse.WindowSize = DefaultWindowSize
	}
	if c.Pulse.Pairing == "" {
		c.Pulse.Pairing = domain.PairingFetchOrder
	}
	if c.Monitor.Interval == 0 {
		c.Monitor.Interval = DefaultMonitorInterval
	}
	if c.Redis.HistorySize == 0 {
		c.Redis.HistorySize = DefaultHistorySize
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = DefaultHistoryTTL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the settings that have no usable default.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.RPC.URL == "" {
		errs = append(errs, errors.New("rpc.url is required"))
	}
	if c.RPC.Timeout < 0 {
		errs = append(errs, fmt.Errorf("rpc.timeout must be positive, got %s", c.RPC.Timeout))
	}
	if c.RPC.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rpc.rate_limit must not be negative, got %v", c.RPC.RateLimit))
	}
	if c.Pulse.WindowSize < 1 {
		errs = append(errs, fmt.Errorf("pulse.window_size must be positive, got %d", c.Pulse.WindowSize))
	}
	if !c.Pulse.Pairing.Valid() {
		errs = append(errs, fmt.Errorf("pulse.pairing %q is not one of %q, %q",
			c.Pulse.Pairing, domain.PairingFetchOrder, domain.PairingAdjacent))
	}
	if c.Monitor.Interval <= 0 {
		errs = append(errs, fmt.Errorf("monitor.interval must be positive, got %s", c.Monitor.Interval))
	}
	if c.Monitor.MaxCycles < 0 {
		errs = append(errs, fmt.Errorf("monitor.max_cycles must not be negative, got %d", c.Monitor.MaxCycles))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	return errors.Join(errs...)
}
