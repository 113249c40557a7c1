// Package pulse computes the network health index from recent block timing.
package pulse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vietddude/blockpulse/internal/core/domain"
	"github.com/vietddude/blockpulse/internal/infra/chain"
	"github.com/vietddude/blockpulse/internal/infra/chain/evm"
	"github.com/vietddude/blockpulse/internal/infra/rpc"
)

// DefaultWindowSize is the number of trailing blocks sampled when none is configured.
const DefaultWindowSize = 20

// ErrDegenerateData is returned when the mean interval of a window is zero,
// which leaves the relative jitter undefined.
var ErrDegenerateData = errors.New("degenerate data: mean block interval is zero")

// SkipObserver is notified of every block left out of a window.
type SkipObserver interface {
	ObserveSkip(reason domain.SkipReason)
}

// Config holds calculator settings.
type Config struct {
	WindowSize int
	Pairing    domain.PairingMode
}

// Calculator derives a health index from a trailing window of blocks.
type Calculator struct {
	reader  chain.Reader
	cfg     Config
	skipObs SkipObserver
	log     *slog.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithSkipObserver reports skipped blocks to o.
func WithSkipObserver(o SkipObserver) Option {
	return func(c *Calculator) {
		c.skipObs = o
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) {
		c.log = l
	}
}

// NewCalculator creates a calculator reading blocks through reader.
func NewCalculator(reader chain.Reader, cfg Config, opts ...Option) *Calculator {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = DefaultWindowSize
	}
	if !cfg.Pairing.Valid() {
		cfg.Pairing = domain.PairingFetchOrder
	}

	c := &Calculator{
		reader: reader,
		cfg:    cfg,
		log:    slog.Default().With("component", "pulse"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute fetches the window ending at the latest block and returns its health index.
//
// A nil index with a nil error means fewer than two usable samples were collected.
// Failures fetching individual blocks are skipped; failing to read the latest block
// number is returned as an error.
func (c *Calculator) Compute(ctx context.Context) (*domain.Index, error) {
	latest, err := c.reader.LatestBlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest block: %w", err)
	}

	start := uint64(0)
	if latest > uint64(c.cfg.WindowSize) {
		start = latest - uint64(c.cfg.WindowSize)
	}

	samples := make([]domain.BlockSample, 0, latest-start)
	skipped := make(map[domain.SkipReason]int)

	for n := start; n < latest; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ts, err := c.reader.BlockTimestamp(ctx, n)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			reason := ClassifySkip(err)
			skipped[reason]++
			if c.skipObs != nil {
				c.skipObs.ObserveSkip(reason)
			}
			c.log.Debug("skipping block", "block", n, "reason", reason, "error", err)
			continue
		}

		samples = append(samples, domain.BlockSample{Number: n, Timestamp: ts})
	}

	totalSkipped := 0
	for _, v := range skipped {
		totalSkipped += v
	}

	if len(samples) < 2 {
		c.log.Debug("not enough samples", "latest", latest, "samples", len(samples), "skipped", totalSkipped)
		return nil, nil
	}

	intervals := Intervals(samples, c.cfg.Pairing)
	if len(intervals) == 0 {
		c.log.Debug("no adjacent samples", "latest", latest, "samples", len(samples), "skipped", totalSkipped)
		return nil, nil
	}

	mean, std := MeanStdDev(intervals)
	if mean == 0 {
		return nil, fmt.Errorf("window [%d, %d): %w", start, latest, ErrDegenerateData)
	}

	idx := &domain.Index{
		Score:       Score(mean, std),
		AvgInterval: mean,
		Jitter:      std,
		LatestBlock: latest,
		WindowStart: start,
		Samples:     len(samples),
		Intervals:   intervals,
		Skipped:     totalSkipped,
	}
	if totalSkipped > 0 {
		idx.SkippedByReason = skipped
	}

	return idx, nil
}

// ClassifySkip maps a block fetch error to the reason it is reported under.
func ClassifySkip(err error) domain.SkipReason {
	var (
		te *rpc.TransportError
		pe *rpc.ProtocolError
		de *evm.DecodeError
		me *evm.MissingFieldError
	)

	switch {
	case errors.As(err, &me):
		return domain.SkipReasonMissingField
	case errors.As(err, &de):
		return domain.SkipReasonDecode
	case errors.As(err, &pe):
		return domain.SkipReasonProtocol
	case errors.As(err, &te):
		return domain.SkipReasonTransport
	default:
		return domain.SkipReasonOther
	}
}
