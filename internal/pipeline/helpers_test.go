package pipeline

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sanspareilsmyn/orderlens/internal/dataset"
)

// row is a compact test record; zero values mean absent.
type row struct {
	order    string
	region   string
	category string
	payment  string
	score    int
	approved time.Time
}

func (r row) record() dataset.Record {
	values := map[dataset.Field]any{}
	if r.order != "" {
		values[dataset.OrderID] = r.order
	}
	if r.region != "" {
		values[dataset.CustomerState] = r.region
	}
	if r.category != "" {
		values[dataset.ProductCategory] = r.category
	}
	if r.payment != "" {
		values[dataset.PaymentValue] = decimal.RequireFromString(r.payment)
	}
	if r.score != 0 {
		values[dataset.ReviewScore] = r.score
	}
	if !r.approved.IsZero() {
		values[dataset.OrderApprovedAt] = r.approved
	}
	return dataset.NewRecord(values)
}

func build(rows ...row) *dataset.Dataset {
	records := make([]dataset.Record, len(rows))
	for i, r := range rows {
		records[i] = r.record()
	}
	return dataset.New("test", records)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

// syntheticDataset builds a deterministic mixed dataset for property checks.
func syntheticDataset(n int) *dataset.Dataset {
	regions := []string{"SP", "RJ", "MG", "RS", "PR"}
	categories := []string{"bed_bath_table", "health_beauty", "toys", "sports_leisure", "", "watches_gifts"}

	rows := make([]row, 0, n)
	for i := 0; i < n; i++ {
		r := row{
			order:    fmt.Sprintf("o%d", i/3),
			region:   regions[(i/3)%len(regions)],
			category: categories[i%len(categories)],
			payment:  fmt.Sprintf("%d.%02d", (i*37)%500, i%100),
			score:    (i*7)%5 + 1,
			approved: at(2018, 1, 1, 0, 0).Add(time.Duration(i) * 7 * time.Hour),
		}
		if i%11 == 0 {
			r.score = 0
		}
		if i%13 == 0 {
			r.approved = time.Time{}
		}
		rows = append(rows, r)
	}
	return build(rows...)
}
