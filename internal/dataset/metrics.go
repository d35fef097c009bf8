package dataset

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orderlens_dataset_load_duration_seconds",
			Help:    "Time spent fetching and parsing the dataset.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"outcome"}, // Label: outcome (success, failure)
	)
	loadedRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orderlens_dataset_rows",
			Help: "Number of records in the most recently loaded dataset.",
		},
	)
	loadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderlens_dataset_load_failures_total",
			Help: "Dataset load failures by reason.",
		},
		[]string{"reason"}, // Labels: unreachable, malformed, missing_column, parse
	)
)

func observeLoadSuccess(ds *Dataset, elapsed time.Duration) {
	loadDuration.WithLabelValues("success").Observe(elapsed.Seconds())
	loadedRows.Set(float64(ds.Len()))
}

func observeLoadFailure(err error, elapsed time.Duration) {
	loadDuration.WithLabelValues("failure").Observe(elapsed.Seconds())
	loadFailures.WithLabelValues(failureReason(err)).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrSourceUnreachable):
		return "unreachable"
	case errors.Is(err, ErrMissingColumn):
		return "missing_column"
	case errors.Is(err, ErrParseFailed):
		return "parse"
	case errors.Is(err, ErrMalformedTable):
		return "malformed"
	default:
		return "other"
	}
}
