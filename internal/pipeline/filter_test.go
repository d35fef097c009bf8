package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/orderlens/internal/dataset"
)

func TestFilter_InclusiveBounds(t *testing.T) {
	t.Parallel()

	start := at(2018, 3, 1, 0, 0)
	end := at(2018, 3, 31, 0, 0)
	ds := build(
		row{order: "before", approved: start.Add(-time.Nanosecond)},
		row{order: "start", approved: start},
		row{order: "inside", approved: at(2018, 3, 15, 9, 30)},
		row{order: "end", approved: end},
		row{order: "after", approved: end.Add(time.Nanosecond)},
		row{order: "absent"},
	)

	out, err := Filter(ds, dataset.OrderApprovedAt, DateRange{Start: start, End: end})
	require.NoError(t, err)

	var kept []string
	for _, r := range out.Records() {
		id, _ := r.Text(dataset.OrderID)
		kept = append(kept, id)
	}
	assert.Equal(t, []string{"start", "inside", "end"}, kept)
}

func TestFilter_InvertedRangeIsEmpty(t *testing.T) {
	t.Parallel()

	ds := build(row{order: "o1", approved: at(2018, 3, 10, 0, 0)})
	rng := DateRange{Start: at(2018, 4, 1, 0, 0), End: at(2018, 1, 1, 0, 0)}

	out, err := Filter(ds, dataset.OrderApprovedAt, rng)
	require.NoError(t, err)
	assert.Zero(t, out.Len())
	require.ErrorIs(t, rng.Validate(), ErrInvalidRange)
}

func TestFilter_RejectsNonTimeField(t *testing.T) {
	t.Parallel()

	_, err := Filter(build(), dataset.CustomerState, DateRange{})
	require.ErrorIs(t, err, ErrNonTimeField)
}

func TestFilter_SubsetProperty(t *testing.T) {
	t.Parallel()

	ds := syntheticDataset(400)
	earliest, latest, ok := ds.TimeBounds(dataset.OrderApprovedAt)
	require.True(t, ok)
	span := latest.Sub(earliest)

	ranges := []DateRange{
		{Start: earliest, End: latest},
		{Start: earliest.Add(span / 4), End: earliest.Add(span / 2)},
		{Start: latest, End: latest},
		{Start: latest.Add(time.Hour), End: latest.Add(2 * time.Hour)},
	}
	for _, rng := range ranges {
		out, err := Filter(ds, dataset.OrderApprovedAt, rng)
		require.NoError(t, err)
		assert.LessOrEqual(t, out.Len(), ds.Len())

		retained := 0
		for _, r := range ds.Records() {
			ts, present := r.Time(dataset.OrderApprovedAt)
			if present && rng.Contains(ts) {
				retained++
			}
		}
		assert.Equal(t, retained, out.Len(), "no excluded row satisfies the predicate")

		for _, r := range out.Records() {
			ts, present := r.Time(dataset.OrderApprovedAt)
			require.True(t, present)
			assert.True(t, rng.Contains(ts))
		}
	}
}

func TestNewDayRange_Boundaries(t *testing.T) {
	t.Parallel()

	startDay := time.Date(2018, 3, 1, 17, 0, 0, 0, time.UTC)
	endDay := time.Date(2018, 3, 31, 8, 0, 0, 0, time.UTC)

	atMidnight := row{order: "midnight", approved: at(2018, 3, 31, 0, 0)}
	lateOnEndDay := row{order: "late", approved: time.Date(2018, 3, 31, 23, 59, 59, 0, time.UTC)}
	nextDay := row{order: "next", approved: at(2018, 4, 1, 0, 0)}
	firstDay := row{order: "first", approved: at(2018, 3, 1, 0, 0)}
	ds := build(firstDay, atMidnight, lateOnEndDay, nextDay)

	tests := []struct {
		name     string
		boundary Boundary
		want     []string
	}{
		{name: "end of day", boundary: EndOfDay, want: []string{"first", "midnight", "late"}},
		{name: "midnight", boundary: Midnight, want: []string{"first", "midnight"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rng := NewDayRange(startDay, endDay, tt.boundary)
			assert.Equal(t, at(2018, 3, 1, 0, 0), rng.Start)

			out, err := Filter(ds, dataset.OrderApprovedAt, rng)
			require.NoError(t, err)

			var kept []string
			for _, r := range out.Records() {
				id, _ := r.Text(dataset.OrderID)
				kept = append(kept, id)
			}
			assert.Equal(t, tt.want, kept)
		})
	}
}

func TestParseBoundary(t *testing.T) {
	t.Parallel()

	b, err := ParseBoundary("midnight")
	require.NoError(t, err)
	assert.Equal(t, Midnight, b)

	b, err = ParseBoundary("end_of_day")
	require.NoError(t, err)
	assert.Equal(t, EndOfDay, b)

	_, err = ParseBoundary("noon")
	require.ErrorIs(t, err, ErrUnknownBoundary)
}

func TestParseDayRange(t *testing.T) {
	t.Parallel()

	ds := build(
		row{order: "o1", approved: at(2017, 2, 3, 8, 15)},
		row{order: "o2", approved: at(2018, 9, 1, 22, 40)},
	)

	rng, err := ParseDayRange(ds, dataset.OrderApprovedAt, "2018-01-01", "2018-01-31", EndOfDay)
	require.NoError(t, err)
	assert.Equal(t, at(2018, 1, 1, 0, 0), rng.Start)
	assert.Equal(t, at(2018, 2, 1, 0, 0).Add(-time.Nanosecond), rng.End)

	rng, err = ParseDayRange(ds, dataset.OrderApprovedAt, "", "", EndOfDay)
	require.NoError(t, err)
	assert.Equal(t, at(2017, 2, 3, 0, 0), rng.Start)
	assert.True(t, rng.Contains(at(2018, 9, 1, 22, 40)), "default end covers the latest record")

	rng, err = ParseDayRange(ds, dataset.OrderApprovedAt, "", "", Midnight)
	require.NoError(t, err)
	assert.False(t, rng.Contains(at(2018, 9, 1, 22, 40)))

	_, err = ParseDayRange(ds, dataset.OrderApprovedAt, "2018/01/01", "", EndOfDay)
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDayRange(ds, dataset.OrderApprovedAt, "", "tomorrow", EndOfDay)
	require.ErrorIs(t, err, ErrInvalidDate)
}
