package main

import (
	"fmt"

	"github.com/sanspareilsmyn/orderlens/internal/dataset"
	"github.com/sanspareilsmyn/orderlens/internal/pipeline"
)

func (a *app) newReporter() (*pipeline.Reporter, pipeline.Boundary, error) {
	field, err := dataset.ParseField(a.cfg.Report.FilterField)
	if err != nil {
		return nil, 0, fmt.Errorf("report.filterField: %w", err)
	}

	boundary, err := pipeline.ParseBoundary(a.cfg.Report.EndBoundary)
	if err != nil {
		return nil, 0, err
	}

	views, err := pipeline.ViewsFromConfig(a.cfg.Report.Views)
	if err != nil {
		return nil, 0, err
	}

	reporter, err := pipeline.NewReporter(views, field, a.logger.Named("reporter"))
	if err != nil {
		return nil, 0, err
	}
	return reporter, boundary, nil
}

func (a *app) newLoader() dataset.Loader {
	return dataset.NewCSVLoader(a.cfg.Dataset, a.logger.Named("loader"))
}
