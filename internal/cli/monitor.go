package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/blockpulse/internal/control"
)

const shutdownTimeout = 10 * time.Second

var (
	interval  time.Duration
	maxCycles int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Compute the health index continuously",
	RunE:  runMonitor,
}

func init() {
	monitorCmd.Flags().DurationVar(&interval, "interval", 0, "pause between cycles, overrides monitor.interval")
	monitorCmd.Flags().IntVar(&maxCycles, "max-cycles", 0, "stop after this many cycles (0 = run until interrupted)")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return err
	}

	if interval > 0 {
		cfg.Monitor.Interval = interval
	}
	if maxCycles > 0 {
		cfg.Monitor.MaxCycles = maxCycles
	}

	app, err := control.NewApp(cfg, cmd.OutOrStdout())
	if err != nil {
		slog.Error("Failed to initialize BlockPulse", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("BlockPulse started",
		"node", cfg.NodeName(),
		"window", cfg.Pulse.WindowSize,
		"pairing", cfg.Pulse.Pairing,
		"interval", cfg.Monitor.Interval,
	)

	runErr := app.Run(ctx)
	if ctx.Err() != nil {
		slog.Info("Received signal, shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		if runErr == nil {
			runErr = err
		}
	}

	if runErr != nil {
		return runErr
	}

	slog.Info("BlockPulse stopped gracefully")
	return nil
}

