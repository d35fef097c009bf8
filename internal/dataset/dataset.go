package dataset

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dataset is an ordered, immutable collection of records.
type Dataset struct {
	source  string
	records []Record
}

// New creates a dataset over a copy of records.
func New(source string, records []Record) *Dataset {
	rs := make([]Record, len(records))
	copy(rs, records)
	return &Dataset{source: source, records: rs}
}

// Source returns the location the dataset was loaded from.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// At returns the i-th record.
func (d *Dataset) At(i int) Record { return d.records[i] }

// Records returns a copy of the record slice.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Select returns a new dataset holding the records for which keep is true,
// in their original order.
func (d *Dataset) Select(keep func(Record) bool) *Dataset {
	out := make([]Record, 0, len(d.records))
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return &Dataset{source: d.source, records: out}
}

// TimeBounds returns the earliest and latest present value of a timestamp field.
func (d *Dataset) TimeBounds(f Field) (earliest, latest time.Time, ok bool) {
	for _, r := range d.records {
		t, present := r.Time(f)
		if !present {
			continue
		}
		if !ok || t.Before(earliest) {
			earliest = t
		}
		if !ok || t.After(latest) {
			latest = t
		}
		ok = true
	}
	return earliest, latest, ok
}

// Summary holds whole-dataset facts shown next to the date-range control.
type Summary struct {
	Rows           int             `json:"rows"`
	DistinctOrders int             `json:"distinct_orders"`
	TotalPayment   decimal.Decimal `json:"total_payment"`
	ApprovedFrom   *time.Time      `json:"approved_from,omitempty"`
	ApprovedTo     *time.Time      `json:"approved_to,omitempty"`
}

// Summarize computes the dataset summary. Payments are summed exactly.
func Summarize(d *Dataset) Summary {
	orders := make(map[string]struct{})
	total := decimal.Zero
	for _, r := range d.records {
		if id, ok := r.Key(OrderID); ok {
			orders[id] = struct{}{}
		}
		if p, ok := r.Decimal(PaymentValue); ok {
			total = total.Add(p)
		}
	}

	s := Summary{
		Rows:           len(d.records),
		DistinctOrders: len(orders),
		TotalPayment:   total,
	}
	if from, to, ok := d.TimeBounds(OrderApprovedAt); ok {
		s.ApprovedFrom = &from
		s.ApprovedTo = &to
	}
	return s
}
