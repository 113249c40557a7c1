package config

import (
	"net/url"
	"time"

	"github.com/vietddude/blockpulse/internal/core/domain"
	redisclient "github.com/vietddude/blockpulse/internal/infra/redis"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	RPC     RPCConfig          `yaml:"rpc"`
	Pulse   PulseConfig        `yaml:"pulse"`
	Monitor MonitorConfig      `yaml:"monitor"`
	Server  ServerConfig       `yaml:"server"`
	Redis   redisclient.Config `yaml:"redis"`
	Logging LoggingConfig      `yaml:"logging"`
}

// RPCConfig holds settings for the node endpoint.
type RPCConfig struct {
	Name      string        `yaml:"name"` // metric and log label, defaults to the URL host
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
}

// PulseConfig holds settings for the health index computation.
type PulseConfig struct {
	WindowSize int                `yaml:"window_size"`
	Pairing    domain.PairingMode `yaml:"pairing"`
}

// MonitorConfig holds settings for the live monitor loop.
type MonitorConfig struct {
	Interval  time.Duration `yaml:"interval"`
	MaxCycles int           `yaml:"max_cycles"` // 0 = run until stopped
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"` // 0 = disabled
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// NodeName returns the label identifying the node in logs, metrics and history keys.
func (c *AppConfig) NodeName() string {
	if c.RPC.Name != "" {
		return c.RPC.Name
	}
	if u, err := url.Parse(c.RPC.URL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return "node"
}
