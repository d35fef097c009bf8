package pipeline

import (
	"fmt"
	"time"

	"github.com/sanspareilsmyn/orderlens/internal/config"
	"github.com/sanspareilsmyn/orderlens/internal/dataset"
)

// DateRange is an inclusive pair of timestamp bounds.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate returns ErrInvalidRange when Start is after End. Filter itself
// accepts inverted ranges and retains nothing.
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	}
	return nil
}

// Contains reports whether Start <= t <= End at full precision.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Boundary decides how the end date of a day-granularity range is turned into
// a timestamp bound.
type Boundary int

const (
	// EndOfDay includes every instant of the end date, up to 23:59:59.999999999.
	EndOfDay Boundary = iota
	// Midnight stops at 00:00:00 of the end date, so later rows on that day are excluded.
	Midnight
)

// ParseBoundary maps the config values "end_of_day" and "midnight".
func ParseBoundary(s string) (Boundary, error) {
	switch s {
	case config.EndBoundaryEndOfDay:
		return EndOfDay, nil
	case config.EndBoundaryMidnight:
		return Midnight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBoundary, s)
}

// NewDayRange builds a range from two calendar dates. Only the year, month and
// day of each argument are used; the bounds are expressed in UTC, the zone the
// dataset timestamps are read in.
func NewDayRange(startDay, endDay time.Time, boundary Boundary) DateRange {
	start := midnightUTC(startDay)
	end := midnightUTC(endDay)
	if boundary == EndOfDay {
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return DateRange{Start: start, End: end}
}

// DayLayout is the accepted format for range bounds given as text.
const DayLayout = time.DateOnly

// ParseDayRange parses YYYY-MM-DD bounds. An empty bound defaults to the
// earliest or latest present value of field in ds, the way the dashboard
// date picker opens on the full span of the data.
func ParseDayRange(ds *dataset.Dataset, field dataset.Field, start, end string, boundary Boundary) (DateRange, error) {
	earliest, latest, _ := ds.TimeBounds(field)

	startDay, err := parseDay(start, earliest)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start: %w", ErrInvalidDate, err)
	}
	endDay, err := parseDay(end, latest)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end: %w", ErrInvalidDate, err)
	}
	return NewDayRange(startDay, endDay, boundary), nil
}

func parseDay(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	return time.ParseInLocation(DayLayout, s, time.UTC)
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Filter returns the records whose field is present and within r.
// Records with an absent value are excluded.
func Filter(ds *dataset.Dataset, field dataset.Field, r DateRange) (*dataset.Dataset, error) {
	if kind, ok := field.Kind(); !ok || kind != dataset.KindTime {
		return nil, fmt.Errorf("%w: %s", ErrNonTimeField, field)
	}

	return ds.Select(func(rec dataset.Record) bool {
		t, ok := rec.Time(field)
		return ok && r.Contains(t)
	}), nil
}
