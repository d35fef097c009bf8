package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/orderlens/internal/dataset"
)

var revenueSpec = AggregationSpec{
	Key: dataset.CustomerState,
	Metrics: []Metric{
		{Name: "orders", Field: dataset.OrderID, Func: UniqueCount},
		{Name: "revenue", Field: dataset.PaymentValue, Func: Sum},
	},
}

var scoreSpec = AggregationSpec{
	Key: dataset.ProductCategory,
	Metrics: []Metric{
		{Name: "mean", Field: dataset.ReviewScore, Func: Mean},
		{Name: "std", Field: dataset.ReviewScore, Func: StdDev},
		{Name: "min", Field: dataset.ReviewScore, Func: Min},
		{Name: "max", Field: dataset.ReviewScore, Func: Max},
		{Name: "sum", Field: dataset.ReviewScore, Func: Sum},
		{Name: "count", Field: dataset.ReviewScore, Func: Count},
	},
}

func TestAggregate_RevenueByRegionScenario(t *testing.T) {
	t.Parallel()

	ds := build(
		row{order: "o1", region: "SP", payment: "100"},
		row{order: "o2", region: "SP", payment: "50"},
		row{order: "o3", region: "RJ", payment: "30"},
	)

	results, err := Aggregate(ds, revenueSpec)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "RJ", results[0].Key, "aggregate output is key-ordered")
	assert.Equal(t, Present(1), results[0].Values["orders"])
	assert.Equal(t, Present(30), results[0].Values["revenue"])
	assert.Equal(t, "SP", results[1].Key)
	assert.Equal(t, Present(2), results[1].Values["orders"])
	assert.Equal(t, Present(150), results[1].Values["revenue"])

	ranked := Rank(results, "revenue", 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "SP", ranked[0].Key)
	assert.Equal(t, "RJ", ranked[1].Key)
}

func TestAggregate_UniqueCountIgnoresRepeatedLines(t *testing.T) {
	t.Parallel()

	ds := build(
		row{order: "o1", region: "SP", payment: "10"},
		row{order: "o1", region: "SP", payment: "15"},
		row{region: "SP", payment: "5"},
	)

	results, err := Aggregate(ds, revenueSpec)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Present(1), results[0].Values["orders"], "absent ids are not a distinct value")
	assert.Equal(t, 3, results[0].Rows)
	assert.Equal(t, Present(30), results[0].Values["revenue"])
}

func TestAggregate_AbsentKeyFormsNoGroup(t *testing.T) {
	t.Parallel()

	ds := build(
		row{order: "o1", payment: "10"},
		row{order: "o2", region: "RJ", payment: "15"},
	)

	results, err := Aggregate(ds, revenueSpec)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "RJ", results[0].Key)
}

func TestAggregate_ScoreStatistics(t *testing.T) {
	t.Parallel()

	ds := build(
		row{order: "a1", category: "pair", score: 5},
		row{order: "a2", category: "pair", score: 5},
		row{order: "b1", category: "single", score: 5},
		row{order: "c1", category: "none"},
		row{order: "d1", category: "spread", score: 1},
		row{order: "d2", category: "spread", score: 3},
		row{order: "d3", category: "spread", score: 5},
	)

	results, err := Aggregate(ds, scoreSpec)
	require.NoError(t, err)

	byKey := make(map[string]AggregationResult)
	for _, r := range results {
		byKey[r.Key] = r
	}
	require.Len(t, byKey, 4)

	pair := byKey["pair"]
	assert.Equal(t, Present(0), pair.Values["std"], "std of [5,5] is exactly zero")
	assert.Equal(t, Present(5), pair.Values["mean"])

	single := byKey["single"]
	assert.Equal(t, Absent, single.Values["std"], "std of one value is absent")
	assert.Equal(t, Present(5), single.Values["mean"])
	assert.Equal(t, Present(1), single.Values["count"])

	none := byKey["none"]
	for _, name := range []string{"mean", "std", "min", "max", "sum"} {
		assert.Equal(t, Absent, none.Values[name], "%s over no present values is absent", name)
	}
	assert.Equal(t, Present(0), none.Values["count"])

	spread := byKey["spread"]
	assert.Equal(t, Present(3), spread.Values["mean"])
	assert.Equal(t, Present(2), spread.Values["std"])
	assert.Equal(t, Present(1), spread.Values["min"])
	assert.Equal(t, Present(5), spread.Values["max"])
	assert.Equal(t, Present(9), spread.Values["sum"])
}

func TestAggregate_SumIsExactForMoney(t *testing.T) {
	t.Parallel()

	ds := build(
		row{order: "o1", region: "SP", payment: "0.1"},
		row{order: "o2", region: "SP", payment: "0.2"},
	)

	results, err := Aggregate(ds, revenueSpec)
	require.NoError(t, err)
	assert.Equal(t, Present(0.3), results[0].Values["revenue"])
}

func TestAggregate_MeanWithinMinMax(t *testing.T) {
	t.Parallel()

	ds := syntheticDataset(600)
	results, err := Aggregate(ds, scoreSpec)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for _, r := range results {
		mean, okMean := r.Value("mean")
		lo, okMin := r.Value("min")
		hi, okMax := r.Value("max")
		if !okMean || !okMin || !okMax {
			continue
		}
		assert.LessOrEqual(t, lo, mean, r.Key)
		assert.LessOrEqual(t, mean, hi, r.Key)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	t.Parallel()

	ds := syntheticDataset(300)
	first, err := Aggregate(ds, scoreSpec)
	require.NoError(t, err)
	second, err := Aggregate(ds, scoreSpec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAggregate_UniqueCountBoundedByDistinctOrders(t *testing.T) {
	t.Parallel()

	ds := syntheticDataset(500)
	results, err := Aggregate(ds, revenueSpec)
	require.NoError(t, err)

	perRegion := 0
	for _, r := range results {
		n, ok := r.Value("orders")
		require.True(t, ok)
		perRegion += int(n)
	}
	assert.Equal(t, dataset.Summarize(ds).DistinctOrders, perRegion, "regions partition orders")
}

func TestAggregate_EmptyDataset(t *testing.T) {
	t.Parallel()

	results, err := Aggregate(build(), revenueSpec)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAggregationSpec_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec AggregationSpec
	}{
		{name: "unknown key", spec: AggregationSpec{Key: "city", Metrics: revenueSpec.Metrics}},
		{name: "no metrics", spec: AggregationSpec{Key: dataset.CustomerState}},
		{name: "unnamed metric", spec: AggregationSpec{Key: dataset.CustomerState, Metrics: []Metric{
			{Field: dataset.OrderID, Func: UniqueCount},
		}}},
		{name: "duplicate metric", spec: AggregationSpec{Key: dataset.CustomerState, Metrics: []Metric{
			{Name: "n", Field: dataset.OrderID, Func: UniqueCount},
			{Name: "n", Field: dataset.OrderID, Func: Count},
		}}},
		{name: "unknown func", spec: AggregationSpec{Key: dataset.CustomerState, Metrics: []Metric{
			{Name: "n", Field: dataset.OrderID, Func: "median"},
		}}},
		{name: "sum over text", spec: AggregationSpec{Key: dataset.CustomerState, Metrics: []Metric{
			{Name: "n", Field: dataset.OrderID, Func: Sum},
		}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.ErrorIs(t, tt.spec.Validate(), ErrInvalidSpec)
			_, err := Aggregate(build(), tt.spec)
			require.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
}

func TestParseFunc(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"unique_count", "count", "sum", "mean", "std", "min", "max"} {
		f, err := ParseFunc(name)
		require.NoError(t, err)
		assert.Equal(t, Func(name), f)
	}
	_, err := ParseFunc("avg")
	require.ErrorIs(t, err, ErrUnknownFunc)
}
