package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/blockpulse/internal/core/domain"
)

const saveTimeout = 5 * time.Second

// ReportStore persists monitor reports.
type ReportStore interface {
	SaveReport(ctx context.Context, node string, rep domain.Report, size int, ttl time.Duration) error
}

// HistoryReporter writes every monitor report to a ReportStore.
// Write failures are logged and never interrupt the monitor.
type HistoryReporter struct {
	store ReportStore
	node  string
	size  int
	ttl   time.Duration
	log   *slog.Logger
}

// NewHistoryReporter creates a reporter keeping size reports per node for ttl.
func NewHistoryReporter(store ReportStore, node string, size int, ttl time.Duration) *HistoryReporter {
	return &HistoryReporter{
		store: store,
		node:  node,
		size:  size,
		ttl:   ttl,
		log:   slog.Default().With("component", "history"),
	}
}

// Report implements health.Reporter.
func (h *HistoryReporter) Report(rep domain.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := h.store.SaveReport(ctx, h.node, rep, h.size, h.ttl); err != nil {
		h.log.Warn("Failed to store report", "cycle", rep.CycleID, "error", err)
	}
}
