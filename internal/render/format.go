// Package render turns reports into terminal tables and an HTML dashboard.
package render

import (
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/sanspareilsmyn/orderlens/internal/dataset"
	"github.com/sanspareilsmyn/orderlens/internal/pipeline"
)

const (
	absentCell  = "-"
	moneyFormat = "#,###.##"
	dateLayout  = "2006-01-02"
)

// FormatValue renders v the way metric m should be read: counts as grouped
// integers, payment statistics as money and everything else with two decimals.
func FormatValue(m pipeline.Metric, v pipeline.Value) string {
	f, ok := v.Get()
	if !ok {
		return absentCell
	}

	switch {
	case m.Func == pipeline.UniqueCount || m.Func == pipeline.Count:
		return humanize.Comma(int64(f))
	case m.Field == dataset.PaymentValue && m.Func != pipeline.StdDev:
		return FormatMoney(f)
	default:
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
}

func FormatMoney(f float64) string {
	return humanize.FormatFloat(moneyFormat, f)
}

// chartValue yields the echarts data point for v. echarts treats "-" as a gap.
func chartValue(v pipeline.Value) any {
	f, ok := v.Get()
	if !ok {
		return absentCell
	}
	return f
}

func metricByName(metrics []pipeline.Metric, name string) (pipeline.Metric, bool) {
	for _, m := range metrics {
		if m.Name == name {
			return m, true
		}
	}
	return pipeline.Metric{}, false
}
