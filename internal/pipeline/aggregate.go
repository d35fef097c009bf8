package pipeline

import (
	"fmt"
	"sort"

	"github.com/sanspareilsmyn/orderlens/internal/dataset"
)

// Func is an aggregation function applied to one field within a group.
type Func string

const (
	UniqueCount Func = "unique_count" // distinct present values
	Count       Func = "count"        // present values
	Sum         Func = "sum"
	Mean        Func = "mean"
	StdDev      Func = "std" // sample standard deviation (n-1)
	Min         Func = "min"
	Max         Func = "max"
)

// ParseFunc resolves a function name.
func ParseFunc(name string) (Func, error) {
	switch f := Func(name); f {
	case UniqueCount, Count, Sum, Mean, StdDev, Min, Max:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFunc, name)
}

// numeric reports whether f needs a numeric source field.
func (f Func) numeric() bool {
	return f != UniqueCount && f != Count
}

// Metric names one (field, function) pair in an aggregation.
type Metric struct {
	Name  string        `json:"name"`
	Field dataset.Field `json:"field"`
	Func  Func          `json:"func"`
}

// AggregationSpec groups by Key and computes Metrics over each group.
type AggregationSpec struct {
	Key     dataset.Field `json:"key"`
	Metrics []Metric      `json:"metrics"`
}

// Validate checks field names, function/field compatibility and metric name uniqueness.
func (s AggregationSpec) Validate() error {
	if _, ok := s.Key.Kind(); !ok {
		return fmt.Errorf("%w: unknown key field %q", ErrInvalidSpec, s.Key)
	}
	if len(s.Metrics) == 0 {
		return fmt.Errorf("%w: no metrics", ErrInvalidSpec)
	}

	seen := make(map[string]bool, len(s.Metrics))
	for _, m := range s.Metrics {
		if m.Name == "" {
			return fmt.Errorf("%w: metric without a name", ErrInvalidSpec)
		}
		if seen[m.Name] {
			return fmt.Errorf("%w: duplicate metric %q", ErrInvalidSpec, m.Name)
		}
		seen[m.Name] = true

		kind, ok := m.Field.Kind()
		if !ok {
			return fmt.Errorf("%w: metric %q: unknown field %q", ErrInvalidSpec, m.Name, m.Field)
		}
		if _, err := ParseFunc(string(m.Func)); err != nil {
			return fmt.Errorf("%w: metric %q: %w", ErrInvalidSpec, m.Name, err)
		}
		if m.Func.numeric() && kind != dataset.KindNumber {
			return fmt.Errorf("%w: metric %q: %s needs a numeric field, %s is %s",
				ErrInvalidSpec, m.Name, m.Func, m.Field, kind)
		}
	}
	return nil
}

// AggregationResult is one group: its key, the number of records in it and
// one value per requested metric.
type AggregationResult struct {
	Key    string           `json:"key"`
	Rows   int              `json:"rows"`
	Values map[string]Value `json:"values"`
}

// Value returns a metric value and whether it is present.
// Unknown metric names report absent.
func (r AggregationResult) Value(metric string) (float64, bool) {
	return r.Values[metric].Get()
}

type groupState struct {
	rows int
	accs []*accumulator
}

// Aggregate computes one result per distinct present key value in ds.
// Records with an absent key belong to no group. Results are ordered by key
// ascending.
func Aggregate(ds *dataset.Dataset, spec AggregationSpec) ([]AggregationResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	groups := make(map[string]*groupState)
	for i := 0; i < ds.Len(); i++ {
		rec := ds.At(i)
		key, ok := rec.Key(spec.Key)
		if !ok {
			continue
		}

		g, exists := groups[key]
		if !exists {
			g = &groupState{accs: make([]*accumulator, len(spec.Metrics))}
			for j, m := range spec.Metrics {
				g.accs[j] = newAccumulator(m.Func)
			}
			groups[key] = g
		}

		g.rows++
		for j, m := range spec.Metrics {
			g.accs[j].add(rec, m.Field)
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]AggregationResult, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		values := make(map[string]Value, len(spec.Metrics))
		for j, m := range spec.Metrics {
			values[m.Name] = g.accs[j].result()
		}
		results = append(results, AggregationResult{Key: k, Rows: g.rows, Values: values})
	}
	return results, nil
}
