package pipeline

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/sanspareilsmyn/orderlens/internal/dataset"
)

// accumulator holds the running state for one metric within one group.
// Sums are kept as exact decimals; the float values are retained for the
// two-pass standard deviation.
type accumulator struct {
	fn       Func
	distinct map[string]struct{}
	present  int64
	sum      decimal.Decimal
	values   []float64
	min, max float64
}

func newAccumulator(fn Func) *accumulator {
	acc := &accumulator{fn: fn, sum: decimal.Zero}
	if fn == UniqueCount {
		acc.distinct = make(map[string]struct{})
	}
	return acc
}

func (a *accumulator) add(rec dataset.Record, field dataset.Field) {
	switch a.fn {
	case UniqueCount:
		if k, ok := rec.Key(field); ok {
			a.distinct[k] = struct{}{}
		}
		return
	case Count:
		if rec.Has(field) {
			a.present++
		}
		return
	}

	d, ok := rec.Decimal(field)
	if !ok {
		return
	}
	v := d.InexactFloat64()

	if a.present == 0 || v < a.min {
		a.min = v
	}
	if a.present == 0 || v > a.max {
		a.max = v
	}
	a.present++
	a.sum = a.sum.Add(d)
	if a.fn == StdDev {
		a.values = append(a.values, v)
	}
}

func (a *accumulator) result() Value {
	switch a.fn {
	case UniqueCount:
		return Present(float64(len(a.distinct)))
	case Count:
		return Present(float64(a.present))
	}

	if a.present == 0 {
		return Absent
	}

	switch a.fn {
	case Sum:
		return Present(a.sum.InexactFloat64())
	case Mean:
		return Present(a.mean())
	case StdDev:
		return a.stdDev()
	case Min:
		return Present(a.min)
	case Max:
		return Present(a.max)
	}
	return Absent
}

// mean divides the exact sum and clamps the rounded quotient into [min, max].
func (a *accumulator) mean() float64 {
	m := a.sum.Div(decimal.NewFromInt(a.present)).InexactFloat64()
	return math.Max(a.min, math.Min(m, a.max))
}

// stdDev is the sample standard deviation; it is undefined below two values.
func (a *accumulator) stdDev() Value {
	n := len(a.values)
	if n < 2 {
		return Absent
	}

	mean := a.mean()
	var ss float64
	for _, v := range a.values {
		d := v - mean
		ss += d * d
	}
	return Present(math.Sqrt(ss / float64(n-1)))
}
