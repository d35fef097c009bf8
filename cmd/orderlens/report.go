package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/orderlens/internal/pipeline"
	"github.com/sanspareilsmyn/orderlens/internal/publish"
	"github.com/sanspareilsmyn/orderlens/internal/render"
)

const publishTimeout = 30 * time.Second

type reportOptions struct {
	start string
	end   string
	html  string
}

func newReportCommand(a *app) *cobra.Command {
	var o reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the report for a date range",
		Long: `Load the dataset, keep the records whose filter timestamp falls in
[--start, --end] and print one table per view. Omitted bounds default to the
earliest and latest timestamp in the dataset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReport(cmd, o)
		},
	}

	cmd.Flags().StringVar(&o.start, "start", "", "first day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&o.end, "end", "", "last day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&o.html, "html", "", "also write the dashboard page to this file")
	return cmd
}

func (a *app) runReport(cmd *cobra.Command, o reportOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reporter, boundary, err := a.newReporter()
	if err != nil {
		return err
	}

	ds, err := a.newLoader().Load(ctx, a.cfg.Dataset.Source)
	if err != nil {
		return err
	}

	rng, err := pipeline.ParseDayRange(ds, reporter.FilterField(), o.start, o.end, boundary)
	if err != nil {
		return err
	}

	report, err := reporter.Run(ds, rng)
	if err != nil {
		return err
	}

	if err := render.WriteTables(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("write tables: %w", err)
	}

	if o.html != "" {
		if err := writeHTMLFile(o.html, report); err != nil {
			return err
		}
		a.logger.Info("Dashboard written", zap.String("path", o.html))
	}

	if a.cfg.Publish.Kafka.Enabled() {
		return a.publish(ctx, report)
	}
	return nil
}

func writeHTMLFile(path string, report *pipeline.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render.WriteHTML(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (a *app) publish(ctx context.Context, report *pipeline.Report) error {
	publisher, err := publish.NewPublisher(a.cfg.Publish.Kafka, a.logger.Named("publisher"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			a.logger.Warn("Error closing Kafka publisher", zap.Error(cerr))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return publisher.Publish(ctx, report)
}
