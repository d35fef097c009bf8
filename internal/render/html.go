package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/sanspareilsmyn/orderlens/internal/pipeline"
)

const (
	pageTitle      = "Order Lens"
	chartWidth     = "100%"
	chartHeight    = "500px"
	emptyHeight    = "300px"
	categoryHeight = "600px"

	colorRevenue = "#5470c6"
	colorOrders  = "#ee6666"
	colorScore   = "#91cc75"
)

// WriteHTML renders the report as a self-contained echarts page.
func WriteHTML(w io.Writer, report *pipeline.Report) error {
	page := components.NewPage()
	page.PageTitle = pageTitle
	page.SetLayout(components.PageFlexLayout)

	subtitle := fmt.Sprintf("%s to %s, %d rows",
		report.Range.Start.Format(dateLayout),
		report.Range.End.Format(dateLayout),
		report.Rows,
	)

	if report.Empty {
		page.AddCharts(emptyChart("No records in range", subtitle))
	} else {
		if v, ok := report.View(pipeline.ViewRevenueByRegion); ok {
			page.AddCharts(regionChart(v, subtitle))
		}
		if v, ok := report.View(pipeline.ViewCategoryReviews); ok {
			page.AddCharts(categoryChart(v, subtitle))
		}
		page.AddCharts(scoreHistogram(report.ScoreDistribution, subtitle))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// regionChart overlays revenue bars with an order count line on a second axis.
func regionChart(v pipeline.ViewResult, subtitle string) *charts.Bar {
	labels := make([]string, len(v.Groups))
	revenue := make([]opts.BarData, len(v.Groups))
	orders := make([]opts.LineData, len(v.Groups))
	for i, g := range v.Groups {
		labels[i] = g.Key
		revenue[i] = opts.BarData{Value: chartValue(g.Values[pipeline.MetricRevenue])}
		orders[i] = opts.LineData{Value: chartValue(g.Values[pipeline.MetricOrderCount])}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: v.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "5%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: string(v.Key)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Total Payment Value"}),
	)
	bar.ExtendYAxis(opts.YAxis{Name: "Order Count", Position: "right"})
	bar.SetXAxis(labels).
		AddSeries("Total Payment Value", revenue,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorRevenue}),
		)

	line := charts.NewLine()
	line.SetXAxis(labels).
		AddSeries("Order Count", orders,
			charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorOrders}),
		)
	bar.Overlap(line)

	return bar
}

// categoryChart draws a horizontal bar per category, largest on top.
func categoryChart(v pipeline.ViewResult, subtitle string) *charts.Bar {
	n := len(v.Groups)
	labels := make([]string, n)
	counts := make([]opts.BarData, n)
	for i, g := range v.Groups {
		labels[n-1-i] = g.Key
		counts[n-1-i] = opts.BarData{Value: chartValue(g.Values[pipeline.MetricOrderCount])}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: categoryHeight}),
		charts.WithTitleOpts(opts.Title{Title: v.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithGridOpts(opts.Grid{Left: "25%", Right: "5%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Order Count"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: labels}),
	)
	bar.AddSeries("Order Count", counts,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorRevenue}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right"}),
	)

	return bar
}

func scoreHistogram(dist [5]int, subtitle string) *charts.Bar {
	labels := make([]string, len(dist))
	counts := make([]opts.BarData, len(dist))
	for i, n := range dist {
		labels[i] = strconv.Itoa(i + 1)
		counts[i] = opts.BarData{Value: n}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Review Score Distribution", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Review Score"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Frequency"}),
	)
	bar.SetXAxis(labels).
		AddSeries("Reviews", counts,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorScore}),
		)

	return bar
}

func emptyChart(title, subtitle string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: emptyHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
	)
	return bar
}
