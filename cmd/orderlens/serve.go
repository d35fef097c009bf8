package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/orderlens/internal/dataset"
	"github.com/sanspareilsmyn/orderlens/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

func (a *app) runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	sugar := a.logger.Sugar()

	reporter, boundary, err := a.newReporter()
	if err != nil {
		return err
	}

	loader := dataset.NewCachedLoader(a.newLoader(), a.logger.Named("cache"))
	srv := server.New(a.cfg.Server, a.cfg.Dataset.Source, loader, reporter, boundary, a.logger.Named("server"))

	// Handle Graceful Shutdown
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		select {
		case sig := <-signals:
			sugar.Infow("Received signal, initiating shutdown...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	// Warm the cache; a failure here is retried on the first request.
	go func() {
		if _, err := loader.Load(ctx, a.cfg.Dataset.Source); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("Initial dataset load failed, will retry on first request", zap.Error(err))
		}
	}()

	runErr := srv.Run(ctx)
	switch {
	case runErr == nil:
		sugar.Info("OrderLens server shutdown gracefully.")
	case errors.Is(runErr, context.Canceled):
		sugar.Info("OrderLens server cancelled (expected on shutdown).")
	default:
		a.logger.Error("OrderLens server stopped unexpectedly", zap.Error(runErr))
		return runErr
	}
	return nil
}
