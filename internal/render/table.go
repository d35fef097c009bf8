package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sanspareilsmyn/orderlens/internal/pipeline"
)

// WriteTables writes the report as plain-text tables: a header block, one
// table per view with its summary tiles and the review score distribution.
func WriteTables(w io.Writer, report *pipeline.Report) error {
	if _, err := fmt.Fprintf(w, "Report %s\nSource: %s\nRange: %s to %s (%s)\nRows: %s\n\n",
		report.ID,
		report.Source,
		report.Range.Start.Format(dateLayout),
		report.Range.End.Format(dateLayout),
		report.FilterField,
		humanize.Comma(int64(report.Rows)),
	); err != nil {
		return err
	}

	if report.Empty {
		_, err := fmt.Fprintln(w, "No records in range.")
		return err
	}

	for _, v := range report.Views {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", viewTable(v).Render(), tilesLine(v)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s\n", distributionTable(report.ScoreDistribution).Render())
	return err
}

func viewTable(v pipeline.ViewResult) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(v.Title)

	header := table.Row{"#", string(v.Key)}
	for _, m := range v.Metrics {
		header = append(header, m.Name)
	}
	tbl.AppendHeader(header)

	for i, g := range v.Groups {
		row := table.Row{i + 1, g.Key}
		for _, m := range v.Metrics {
			row = append(row, FormatValue(m, g.Values[m.Name]))
		}
		tbl.AppendRow(row)
	}

	footer := fmt.Sprintf("Showing %d of %d groups", len(v.Groups), v.TotalGroups)
	tbl.AppendFooter(table.Row{"", footer})
	return tbl
}

func tilesLine(v pipeline.ViewResult) string {
	if v.Summary == nil {
		return "No groups."
	}

	m, _ := metricByName(v.Metrics, v.RankBy)
	return fmt.Sprintf("Top %s: %s (%s %s) | %s min %s, max %s, total %s",
		v.Key,
		v.Summary.TopKey,
		v.RankBy,
		FormatValue(m, v.Summary.TopValues[v.RankBy]),
		v.RankBy,
		FormatValue(m, v.Summary.RankMin),
		FormatValue(m, v.Summary.RankMax),
		FormatValue(m, v.Summary.RankTotal),
	)
}

func distributionTable(dist [5]int) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("Review Score Distribution")
	tbl.AppendHeader(table.Row{"score", "reviews"})

	total := 0
	for i, n := range dist {
		tbl.AppendRow(table.Row{strconv.Itoa(i + 1), humanize.Comma(int64(n))})
		total += n
	}
	tbl.AppendFooter(table.Row{"total", humanize.Comma(int64(total))})
	return tbl
}
