package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/blockpulse/internal/core/domain"
	"github.com/vietddude/blockpulse/internal/indexing/pulse"
)

// DefaultInterval is the pause between cycles when none is configured.
const DefaultInterval = 60 * time.Second

// Calculator computes one health index. A nil index with a nil error means not enough data.
type Calculator interface {
	Compute(ctx context.Context) (*domain.Index, error)
}

// Config holds monitor loop settings.
type Config struct {
	Interval  time.Duration
	MaxCycles int // 0 = run until the context is cancelled
}

// Monitor repeatedly computes the health index and hands every outcome to its reporters.
type Monitor struct {
	calc      Calculator
	cfg       Config
	reporters []Reporter
	log       *slog.Logger

	mu      sync.RWMutex
	last    domain.Report
	hasLast bool
}

// NewMonitor creates a new health monitor.
func NewMonitor(calc Calculator, cfg Config, reporters ...Reporter) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	return &Monitor{
		calc:      calc,
		cfg:       cfg,
		reporters: reporters,
		log:       slog.Default().With("component", "monitor"),
	}
}

// Run executes a cycle immediately and then once per interval until ctx is cancelled
// or MaxCycles cycles have run. A failing cycle is reported and does not stop the loop.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("Starting live monitor", "interval", m.cfg.Interval, "max_cycles", m.cfg.MaxCycles)

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for cycles := 0; ; {
		if ctx.Err() != nil {
			m.log.Info("Live monitor stopped", "cycles", cycles)
			return nil
		}

		m.RunOnce(ctx)
		cycles++

		if m.cfg.MaxCycles > 0 && cycles >= m.cfg.MaxCycles {
			m.log.Info("Live monitor finished", "cycles", cycles)
			return nil
		}

		select {
		case <-ctx.Done():
			m.log.Info("Live monitor stopped", "cycles", cycles)
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce computes a single report. Reporters are skipped when ctx was cancelled mid-cycle.
func (m *Monitor) RunOnce(ctx context.Context) domain.Report {
	rep := domain.Report{
		CycleID: uuid.NewString(),
		At:      time.Now(),
	}

	idx, err := m.compute(ctx)
	rep.Duration = time.Since(rep.At)

	switch {
	case err == nil && idx != nil:
		rep.Status = domain.ReportStatusOK
		rep.Index = idx
	case err == nil:
		rep.Status = domain.ReportStatusInsufficientData
	case errors.Is(err, pulse.ErrDegenerateData):
		rep.Status = domain.ReportStatusDegenerate
		rep.Error = err.Error()
	default:
		rep.Status = domain.ReportStatusError
		rep.Error = err.Error()
	}

	if ctx.Err() != nil {
		return rep
	}

	m.mu.Lock()
	m.last = rep
	m.hasLast = true
	m.mu.Unlock()

	for _, r := range m.reporters {
		r.Report(rep)
	}

	return rep
}

// compute runs the calculator, turning a panic into an error.
func (m *Monitor) compute(ctx context.Context) (idx *domain.Index, err error) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("health computation panicked", "panic", r)
			idx, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	return m.calc.Compute(ctx)
}

// Last returns the most recent report, if any cycle has completed.
func (m *Monitor) Last() (domain.Report, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last, m.hasLast
}
