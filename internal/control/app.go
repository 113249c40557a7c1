// Package control wires the RPC client, calculator, monitor and reporters into one application.
package control

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietddude/blockpulse/internal/core/config"
	"github.com/vietddude/blockpulse/internal/indexing/health"
	"github.com/vietddude/blockpulse/internal/indexing/metrics"
	"github.com/vietddude/blockpulse/internal/indexing/pulse"
	"github.com/vietddude/blockpulse/internal/infra/chain/evm"
	redisclient "github.com/vietddude/blockpulse/internal/infra/redis"
	"github.com/vietddude/blockpulse/internal/infra/rpc"
)

const providerStatsInterval = 30 * time.Second

// App is the main application struct that manages the monitor lifecycle.
type App struct {
	cfg          *config.AppConfig
	node         string
	provider     *rpc.HTTPProvider
	calculator   *pulse.Calculator
	monitor      *health.Monitor
	healthServer *health.Server
	redisClient  *redisclient.Client
	log          *slog.Logger
}

// NewApp builds every component from cfg. Console lines are written to out.
// A Redis connection failure disables the history and is not fatal.
func NewApp(cfg *config.AppConfig, out io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	node := cfg.NodeName()
	log := slog.Default().With("node", node)
	recorder := metrics.NewRecorder(node)

	provider := rpc.NewHTTPProvider(
		node,
		cfg.RPC.URL,
		cfg.RPC.Timeout,
		rpc.WithRateLimit(cfg.RPC.RateLimit),
		rpc.WithObserver(recorder),
	)

	calculator := pulse.NewCalculator(
		evm.NewReader(provider),
		pulse.Config{WindowSize: cfg.Pulse.WindowSize, Pairing: cfg.Pulse.Pairing},
		pulse.WithSkipObserver(recorder),
		pulse.WithLogger(log.With("component", "pulse")),
	)

	reporters := []health.Reporter{
		health.NewConsoleReporter(out),
		health.NewLogReporter(log),
		recorder,
	}

	var redisClient *redisclient.Client
	if cfg.Redis.Enabled() {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, history disabled", "error", err)
		} else {
			reporters = append(reporters, redisclient.NewHistoryReporter(
				redisClient, node, cfg.Redis.HistorySize, cfg.Redis.TTL,
			))
			slog.Info("Report history enabled", "size", cfg.Redis.HistorySize, "ttl", cfg.Redis.TTL)
		}
	}

	monitor := health.NewMonitor(
		calculator,
		health.Config{Interval: cfg.Monitor.Interval, MaxCycles: cfg.Monitor.MaxCycles},
		reporters...,
	)

	var healthServer *health.Server
	if cfg.Server.Port > 0 {
		healthServer = health.NewServer(monitor, node, cfg.Server.Port)
		if redisClient != nil {
			healthServer.SetFallback(redisClient)
		}
	}

	return &App{
		cfg:          cfg,
		node:         node,
		provider:     provider,
		calculator:   calculator,
		monitor:      monitor,
		healthServer: healthServer,
		redisClient:  redisClient,
		log:          log,
	}, nil
}

// Monitor exposes the live monitor.
func (a *App) Monitor() *health.Monitor {
	return a.monitor
}

// Start starts the background components: the health server and the provider stats logger.
func (a *App) Start(ctx context.Context) error {
	if a.healthServer != nil {
		go func() {
			if err := a.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("Health server failed", "error", err)
			}
		}()
		a.log.Info("Health server listening", "port", a.cfg.Server.Port)
	}

	go a.runProviderStats(ctx)

	return nil
}

// Run starts the background components and blocks in the monitor loop.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	return a.monitor.Run(ctx)
}

// Stop releases every resource held by the app.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping BlockPulse...")

	var errs []error

	if a.healthServer != nil {
		if err := a.healthServer.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}

	if err := a.provider.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (a *App) runProviderStats(ctx context.Context) {
	ticker := time.NewTicker(providerStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h := a.provider.GetHealth()
			attrs := []any{
				"available", h.Available,
				"latency", h.Latency,
				"error_rate", h.ErrorRate,
			}
			if h.MonitorStats != nil {
				attrs = append(attrs,
					"status", h.MonitorStats.Status.String(),
					"requests_last_hour", h.MonitorStats.RequestsLastHour,
				)
			}
			a.log.Debug("Provider stats", attrs...)
		}
	}
}
