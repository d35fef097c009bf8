package pipeline

import "errors"

var (
	ErrEmptyResult     = errors.New("no data for this range")
	ErrInvalidRange    = errors.New("range start is after range end")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrAbsentMetric    = errors.New("metric is absent in every group")
	ErrUnknownFunc     = errors.New("unknown aggregation function")
	ErrUnknownMetric   = errors.New("unknown metric")
	ErrInvalidSpec     = errors.New("invalid aggregation spec")
	ErrInvalidView     = errors.New("invalid report view")
	ErrNonTimeField    = errors.New("filter field is not a timestamp")
	ErrUnknownBoundary = errors.New("unknown end boundary policy")
)
