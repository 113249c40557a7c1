package health

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/vietddude/blockpulse/internal/core/domain"
)

// Reporter receives the outcome of every monitor cycle.
type Reporter interface {
	Report(rep domain.Report)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(rep domain.Report)

// Report implements Reporter.
func (f ReporterFunc) Report(rep domain.Report) {
	f(rep)
}

// ConsoleReporter writes one human-readable line per cycle.
type ConsoleReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

func (c *ConsoleReporter) Report(rep domain.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.w, FormatReport(rep))
}

// FormatReport renders a report as a single console line.
func FormatReport(rep domain.Report) string {
	switch rep.Status {
	case domain.ReportStatusOK:
		idx := rep.Index
		return fmt.Sprintf("⛓ NHI: %.2f/100 | avg_block_time: %.2fs | jitter: %.2f | block: %d | skipped: %d",
			idx.Score, idx.AvgInterval, idx.Jitter, idx.LatestBlock, idx.Skipped)
	case domain.ReportStatusInsufficientData:
		return "⚠️  not enough data in the block window"
	case domain.ReportStatusDegenerate:
		return "⚠️  degenerate window: " + rep.Error
	default:
		return "❌ cycle failed: " + rep.Error
	}
}

// LogReporter emits a structured log record per cycle.
type LogReporter struct {
	log *slog.Logger
}

func NewLogReporter(log *slog.Logger) *LogReporter {
	if log == nil {
		log = slog.Default()
	}
	return &LogReporter{log: log}
}

func (l *LogReporter) Report(rep domain.Report) {
	attrs := []any{
		"cycle", rep.CycleID,
		"status", rep.Status,
		"duration", rep.Duration,
	}

	switch rep.Status {
	case domain.ReportStatusOK:
		attrs = append(attrs,
			"score", rep.Index.Score,
			"avg_interval", rep.Index.AvgInterval,
			"jitter", rep.Index.Jitter,
			"latest_block", rep.Index.LatestBlock,
			"samples", rep.Index.Samples,
			"skipped", rep.Index.Skipped,
		)
		if rep.Index.Skipped > 0 {
			attrs = append(attrs, "skipped_by_reason", rep.Index.SkippedByReason)
		}
		l.log.Info("Health index computed", attrs...)
	case domain.ReportStatusInsufficientData:
		l.log.Warn("Not enough data to compute health index", attrs...)
	default:
		l.log.Error("Health cycle failed", append(attrs, "error", rep.Error)...)
	}
}
