package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single request when none is configured.
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 512
)

// HTTPProvider implements Provider for JSON-RPC over HTTP.
type HTTPProvider struct {
	name       string
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	observer   Observer

	mu           sync.RWMutex
	health       HealthStatus
	totalLatency time.Duration
	successCount int
	failureCount int
	requestCount int

	Monitor *ProviderMonitor
}

// Option configures an HTTPProvider.
type Option func(*HTTPProvider)

// WithRateLimit caps outgoing calls to rps requests per second. Zero disables the limit.
func WithRateLimit(rps float64) Option {
	return func(p *HTTPProvider) {
		if rps <= 0 {
			p.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithObserver reports every call outcome to o.
func WithObserver(o Observer) Option {
	return func(p *HTTPProvider) {
		p.observer = o
	}
}

// NewHTTPProvider creates a new HTTP-based RPC provider.
func NewHTTPProvider(name, endpoint string, timeout time.Duration, opts ...Option) *HTTPProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	p := &HTTPProvider{
		name:     name,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		health: HealthStatus{
			Available:     true,
			LastSuccessAt: time.Now(),
		},
		Monitor: NewProviderMonitor(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Call makes a single JSON-RPC call and returns the value under "result".
func (p *HTTPProvider) Call(ctx context.Context, method string, params []any) (result any, err error) {
	start := time.Now()
	defer func() {
		if p.observer != nil {
			p.observer.ObserveCall(p.name, method, time.Since(start), err)
		}
	}()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			p.recordFailure()
			return nil, &TransportError{Method: method, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	if params == nil {
		params = []any{}
	}

	jsonData, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		p.recordFailure()
		return nil, &ProtocolError{Method: method, Message: "marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		p.recordFailure()
		return nil, &TransportError{Method: method, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.recordFailure()
		return nil, &TransportError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	latency := time.Since(start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.recordFailure()
		return nil, &TransportError{Method: method, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	// Rate limit and IP block detection
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden {
		p.Monitor.RecordThrottle(resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.recordFailure()
		return nil, &TransportError{
			Method:     method,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrorBody),
		}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		p.recordFailure()
		return nil, &ProtocolError{Method: method, Message: "parse response", Err: err}
	}

	if raw, ok := envelope["error"]; ok && !isJSONNull(raw) {
		p.recordFailure()
		var rpcErr rpcError
		if err := json.Unmarshal(raw, &rpcErr); err != nil {
			return nil, &ProtocolError{Method: method, Message: "malformed error envelope", Err: err}
		}
		if p.Monitor.DetectThrottlePattern(rpcErr.Message) {
			p.Monitor.RecordThrottle(http.StatusTooManyRequests)
		}
		return nil, &ProtocolError{Method: method, Code: rpcErr.Code, Message: rpcErr.Message}
	}

	raw, ok := envelope["result"]
	if !ok {
		p.recordFailure()
		return nil, &ProtocolError{Method: method, Message: "response has no result field"}
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		p.recordFailure()
		return nil, &ProtocolError{Method: method, Message: "decode result", Err: err}
	}

	p.Monitor.RecordRequest(latency)
	p.recordSuccess(latency)

	return result, nil
}

// GetName returns the provider's name.
func (p *HTTPProvider) GetName() string {
	return p.name
}

// GetHealth returns the provider's health status.
func (p *HTTPProvider) GetHealth() HealthStatus {
	p.mu.RLock()
	health := p.health
	p.mu.RUnlock()

	stats := p.Monitor.GetStats()
	health.MonitorStats = &stats
	return health
}

// Close cleans up resources.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

func (p *HTTPProvider) recordSuccess(latency time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.successCount++
	p.requestCount++
	p.totalLatency += latency
	p.health.LastSuccessAt = time.Now()
	p.health.Available = true

	if p.requestCount > 0 {
		p.health.ErrorRate = float64(p.failureCount) / float64(p.requestCount)
	}
	if p.successCount > 0 {
		p.health.Latency = p.totalLatency / time.Duration(p.successCount)
	}
}

func (p *HTTPProvider) recordFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failureCount++
	p.requestCount++
	p.health.LastFailureAt = time.Now()

	if p.requestCount > 0 {
		p.health.ErrorRate = float64(p.failureCount) / float64(p.requestCount)
	}

	if p.health.ErrorRate > 0.5 {
		p.health.Available = false
	}
}

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProtocol reports whether err is, or wraps, a ProtocolError.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

func isJSONNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
