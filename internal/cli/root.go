package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/blockpulse/internal/core/config"
)

const defaultConfigPath = "config.yaml"

var (
	cfgPath    string
	isDebug    bool
	rpcURL     string
	windowSize int
)

var rootCmd = &cobra.Command{
	Use:   "blockpulse",
	Short: "BlockPulse network health monitor",
	Long: `BlockPulse samples the timestamps of recent blocks from a JSON-RPC node and
scores the regularity of block production from 0 to 100.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMonitor,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ec *exitCodeError
		if errors.As(err, &ec) {
			os.Exit(ec.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, "config file")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc-url", "", "JSON-RPC endpoint, overrides rpc.url")
	rootCmd.PersistentFlags().IntVar(&windowSize, "window", 0, "number of trailing blocks to sample, overrides pulse.window_size")
}

// exitCodeError carries a process exit code through cobra.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string {
	return e.msg
}

// loadConfig reads .env and the config file, applies flag overrides and sets up logging.
// A missing default config file is not an error: the node can be given by flag or RPC_URL.
func loadConfig() (*config.AppConfig, error) {
	_ = godotenv.Load()

	path := cfgPath
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		stylelog.InitDefault()
		return nil, err
	}

	if rpcURL != "" {
		cfg.RPC.URL = rpcURL
	}
	if windowSize != 0 {
		cfg.Pulse.WindowSize = windowSize
	}

	setupLogging(cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setupLogging(level string) {
	slogLevel := slog.LevelInfo
	switch {
	case isDebug || level == "debug":
		slogLevel = slog.LevelDebug
	case level == "warn":
		slogLevel = slog.LevelWarn
	case level == "error":
		slogLevel = slog.LevelError
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})
}
