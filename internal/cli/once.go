package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vietddude/blockpulse/internal/control"
	"github.com/vietddude/blockpulse/internal/core/domain"
)

// Exit codes of the once command.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitInsufficient = 2
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Compute the health index once and exit",
	Long: `Compute the health index for the latest window and print it.
Exits 0 on success, 2 when the window has too little or degenerate data, 1 on error.`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(onceCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return err
	}

	app, err := control.NewApp(cfg, cmd.OutOrStdout())
	if err != nil {
		slog.Error("Failed to initialize BlockPulse", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep := app.Monitor().RunOnce(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Stop(shutdownCtx); err != nil {
		slog.Warn("Error during shutdown", "error", err)
	}

	if ctx.Err() != nil {
		return &exitCodeError{code: ExitError, msg: "interrupted"}
	}
	if code := exitCode(rep); code != ExitOK {
		return &exitCodeError{code: code, msg: string(rep.Status)}
	}
	return nil
}

func exitCode(rep domain.Report) int {
	switch rep.Status {
	case domain.ReportStatusOK:
		return ExitOK
	case domain.ReportStatusInsufficientData, domain.ReportStatusDegenerate:
		return ExitInsufficient
	default:
		return ExitError
	}
}
