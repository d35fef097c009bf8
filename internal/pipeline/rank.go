package pipeline

import "sort"

// Rank returns a new slice ordered by metric descending, with ties broken by
// key ascending. Groups whose metric is absent sort after every present value.
// topN <= 0 keeps every group; a topN larger than the input is not an error.
func Rank(results []AggregationResult, metric string, topN int) []AggregationResult {
	ranked := make([]AggregationResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		vi, oki := ranked[i].Value(metric)
		vj, okj := ranked[j].Value(metric)
		switch {
		case oki != okj:
			return oki
		case oki && vi != vj:
			return vi > vj
		default:
			return ranked[i].Key < ranked[j].Key
		}
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
