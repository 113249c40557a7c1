package provider

import (
	"net/http"
	"testing"
	"time"
)

func TestMonitor_RecordRequest(t *testing.T) {
	m := NewProviderMonitor()

	m.RecordRequest(100 * time.Millisecond)

	stats := m.GetStats()
	if stats.RequestsLastHour != 1 {
		t.Errorf("Expected 1 request, got %d", stats.RequestsLastHour)
	}

	for i := 0; i < 100; i++ {
		m.RecordRequest(50 * time.Millisecond)
	}

	stats = m.GetStats()
	if stats.RequestsLastHour != 101 {
		t.Errorf("Expected 101 requests, got %d", stats.RequestsLastHour)
	}
	// Latency window keeps only the last 100 samples
	if stats.AverageLatency != 50*time.Millisecond {
		t.Errorf("Expected average latency 50ms, got %v", stats.AverageLatency)
	}
}

func TestMonitor_Status(t *testing.T) {
	m := NewProviderMonitor()
	if got := m.CheckProviderStatus(); got != StatusHealthy {
		t.Fatalf("expected healthy, got %s", got)
	}

	for i := 0; i < 10; i++ {
		m.RecordRequest(5 * time.Second)
	}
	if got := m.CheckProviderStatus(); got != StatusDegraded {
		t.Errorf("expected degraded after slow responses, got %s", got)
	}

	m.RecordThrottle(http.StatusTooManyRequests)
	if got := m.CheckProviderStatus(); got != StatusThrottled {
		t.Errorf("expected throttled after 429, got %s", got)
	}

	m.RecordThrottle(http.StatusForbidden)
	if got := m.CheckProviderStatus(); got != StatusBlocked {
		t.Errorf("expected blocked after 403, got %s", got)
	}

	stats := m.GetStats()
	if stats.ThrottleCount429 != 1 || stats.ThrottleCount403 != 1 {
		t.Errorf("unexpected throttle counts: %+v", stats)
	}
}

func TestMonitor_DetectThrottlePattern(t *testing.T) {
	m := NewProviderMonitor()

	if !m.DetectThrottlePattern("Too Many Requests, slow down") {
		t.Error("expected throttle pattern to match case-insensitively")
	}
	if m.DetectThrottlePattern("header not found") {
		t.Error("expected no match for unrelated message")
	}
}
