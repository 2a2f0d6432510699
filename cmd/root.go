package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/kamusis/triage/internal/config"
	"github.com/spf13/cobra"
)

var flagLogLevel string

var rootCmd = &cobra.Command{
	Use:          "triage",
	Short:        "Triage — ticket category classifier (TF-IDF + linear SVM)",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `Triage trains a ticket category classifier from a labeled CSV export,
installs it under ~/.triage/model/ and predicts the category of new ticket
descriptions.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override the log level (debug, info, warn, error)")
}

// Execute is called by main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: triage.yaml (defaults when
// it does not exist yet), then TRIAGE_* overrides, then --log-level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.DefaultConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w\nRun 'triage init' to write a default config.", err)
	}
	if err := config.ApplyOverrides(cfg); err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
