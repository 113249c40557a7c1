// Package rpc provides the JSON-RPC client used to query a node.
//
// # Quick Start
//
//	import "github.com/vietddude/blockpulse/internal/infra/rpc"
//
//	p := rpc.NewHTTPProvider("mainnet", nodeURL, 10*time.Second)
//	result, err := p.Call(ctx, "eth_blockNumber", nil)
//
// # Package Structure
//
//   - provider/ - HTTPProvider, latency monitoring, typed call errors
//
// Most types are re-exported at the root level for convenience.
package rpc

import (
	"context"
	"time"

	"github.com/vietddude/blockpulse/internal/infra/rpc/provider"
)

// Caller is the minimal surface needed to issue a JSON-RPC request.
type Caller interface {
	Call(ctx context.Context, method string, params []any) (any, error)
}

// Provider is the core interface for RPC endpoints.
type Provider = provider.Provider

// HTTPProvider implements Provider for JSON-RPC over HTTP.
type HTTPProvider = provider.HTTPProvider

// Option configures an HTTPProvider.
type Option = provider.Option

// Observer receives the outcome of every call.
type Observer = provider.Observer

// HealthStatus represents the health state of a provider.
type HealthStatus = provider.HealthStatus

// TransportError is an HTTP-level call failure.
type TransportError = provider.TransportError

// ProtocolError is a malformed or error JSON-RPC response.
type ProtocolError = provider.ProtocolError

// NewHTTPProvider creates a new HTTP-based RPC provider.
func NewHTTPProvider(name, endpoint string, timeout time.Duration, opts ...Option) *HTTPProvider {
	return provider.NewHTTPProvider(name, endpoint, timeout, opts...)
}

// WithRateLimit caps outgoing calls to rps requests per second.
var WithRateLimit = provider.WithRateLimit

// WithObserver reports every call outcome to an Observer.
var WithObserver = provider.WithObserver
