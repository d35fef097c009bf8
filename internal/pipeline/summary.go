package pipeline

import (
	"fmt"

	"github.com/sanspareilsmyn/orderlens/internal/dataset"
)

// Top returns the first entry of an already-ranked result set.
func Top(results []AggregationResult) (AggregationResult, error) {
	if len(results) == 0 {
		return AggregationResult{}, ErrEmptyResult
	}
	return results[0], nil
}

// Extent returns the minimum and maximum present value of metric across results.
func Extent(results []AggregationResult, metric string) (lo, hi float64, err error) {
	if len(results) == 0 {
		return 0, 0, ErrEmptyResult
	}

	found := false
	for _, r := range results {
		v, ok := r.Value(metric)
		if !ok {
			continue
		}
		if !found || v < lo {
			lo = v
		}
		if !found || v > hi {
			hi = v
		}
		found = true
	}
	if !found {
		return 0, 0, fmt.Errorf("%w: %s", ErrAbsentMetric, metric)
	}
	return lo, hi, nil
}

// Total sums the present values of metric across results.
func Total(results []AggregationResult, metric string) (float64, error) {
	if len(results) == 0 {
		return 0, ErrEmptyResult
	}

	var total float64
	found := false
	for _, r := range results {
		if v, ok := r.Value(metric); ok {
			total += v
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: %s", ErrAbsentMetric, metric)
	}
	return total, nil
}

// ReviewScores returns every present review score in record order.
func ReviewScores(ds *dataset.Dataset) []float64 {
	var scores []float64
	for i := 0; i < ds.Len(); i++ {
		if v, ok := ds.At(i).Number(dataset.ReviewScore); ok {
			scores = append(scores, v)
		}
	}
	return scores
}

// ScoreDistribution counts present review scores per score value 1..5.
// Index 0 holds the count for score 1.
func ScoreDistribution(scores []float64) [5]int {
	var dist [5]int
	for _, s := range scores {
		if i := int(s) - 1; i >= 0 && i < len(dist) {
			dist[i]++
		}
	}
	return dist
}
