package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/orderlens/internal/config"
	"github.com/sanspareilsmyn/orderlens/internal/logging"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "orderlens",
		Short: "OrderLens - e-commerce order dataset reports",
		Long: `OrderLens loads a flat e-commerce order table and reports revenue by
customer state, top product categories with review statistics and the
review score distribution over a date range.

Commands:
  report    Print the report for a date range
  serve     Serve the interactive dashboard and JSON API`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync() // Flush buffered logs on exit
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the configuration file")

	root.AddCommand(newReportCommand(a))
	root.AddCommand(newServeCommand(a))
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration from %q: %w", a.configPath, err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger

	logger.Sugar().Infow("Configuration loaded successfully",
		"path", a.configPath,
		"source", cfg.Dataset.Source,
		"level", cfg.Log.Level,
		"format", cfg.Log.Format,
	)
	return nil
}
