package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderlens_report_runs_total",
			Help: "Report generation passes by outcome.",
		},
		[]string{"outcome"}, // Label: outcome (ok, empty, error)
	)
	filteredRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orderlens_report_filtered_rows",
			Help: "Records retained by the date-range filter in the last report.",
		},
	)
	viewGroups = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orderlens_report_view_groups",
			Help: "Distinct groups a view produced in the last report, before truncation.",
		},
		[]string{"view"},
	)
)
