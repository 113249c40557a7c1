package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/blockpulse/internal/core/domain"
	redisclient "github.com/vietddude/blockpulse/internal/infra/redis"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent reports stored in Redis",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of reports to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return err
	}
	if !cfg.Redis.Enabled() {
		return errors.New("redis.url is not configured")
	}

	client, err := redisclient.NewClient(cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reports, err := client.History(ctx, cfg.NodeName(), historyLimit)
	if err != nil {
		slog.Error("Failed to read history", "error", err)
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reports stored for", cfg.NodeName())
		return nil
	}

	printReports(cmd.OutOrStdout(), reports)
	return nil
}

func printReports(out io.Writer, reports []domain.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSTATUS\tSCORE\tAVG_INTERVAL\tJITTER\tBLOCK\tSKIPPED")
	for _, rep := range reports {
		if rep.Index == nil {
			fmt.Fprintf(w, "%s\t%s\t-\t-\t-\t-\t-\n", rep.At.Format(time.RFC3339), rep.Status)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2fs\t%.2f\t%d\t%d\n",
			rep.At.Format(time.RFC3339),
			rep.Status,
			rep.Index.Score,
			rep.Index.AvgInterval,
			rep.Index.Jitter,
			rep.Index.LatestBlock,
			rep.Index.Skipped,
		)
	}
	_ = w.Flush()
}
