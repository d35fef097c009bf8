package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrLoadFailed        = errors.New("failed to load dataset")
	ErrSourceUnreachable = errors.New("dataset source unreachable")
	ErrMalformedTable    = errors.New("malformed tabular input")
	ErrMissingColumn     = errors.New("required column missing from header")
	ErrParseFailed       = errors.New("failed to parse column value")
	ErrUnknownField      = errors.New("unknown field")

	errNegativeAmount    = errors.New("amount must be non-negative")
	errScoreOutOfRange   = errors.New("review score must be an integer from 1 to 5")
	errUnknownTimeLayout = errors.New("no known date/time layout matched")
)

// ParseError reports a cell that could not be coerced to its column type.
// It matches ErrParseFailed with errors.Is.
type ParseError struct {
	Line   int
	Column Field
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: column %s: cannot parse %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParseFailed, e.Err}
}
