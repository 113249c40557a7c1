// Package provider implements the JSON-RPC transport used to talk to a node.
//
// This package contains:
//   - Provider interface: core abstraction for an RPC endpoint
//   - HTTPProvider: JSON-RPC 2.0 over HTTP implementation
//   - ProviderMonitor: latency and throttle tracking
//   - TransportError / ProtocolError: typed call failures
package provider

import (
	"context"
	"time"
)

// Provider defines the interface for a JSON-RPC endpoint.
type Provider interface {
	// GetName returns provider identifier (e.g., "mainnet", "local")
	GetName() string

	// Call makes a single RPC request and returns the decoded "result" value.
	Call(ctx context.Context, method string, params []any) (any, error)

	// GetHealth returns current health metrics
	GetHealth() HealthStatus

	// Close cleans up resources
	Close() error
}

// Observer receives the outcome of every call.
type Observer interface {
	ObserveCall(provider, method string, latency time.Duration, err error)
}

// HealthStatus represents the health state of a provider.
type HealthStatus struct {
	Available     bool          `json:"available"`
	Latency       time.Duration `json:"latency"`
	ErrorRate     float64       `json:"error_rate"`
	LastSuccessAt time.Time     `json:"last_success_at"`
	LastFailureAt time.Time     `json:"last_failure_at"`
	MonitorStats  *MonitorStats `json:"monitor_stats,omitempty"`
}
