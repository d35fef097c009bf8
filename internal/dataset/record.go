package dataset

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one transaction line. Each attribute is either present or absent;
// absent attributes have no entry in values.
//
// Stored value types: string for text fields, decimal.Decimal for payment_value,
// int for review_score and time.Time for the lifecycle timestamps.
type Record struct {
	values map[Field]any
}

// NewRecord builds a record from present values. Zero-valued strings are kept
// as given; callers that mean "absent" omit the key. Numeric values may be
// given as int, float64 or decimal.Decimal.
func NewRecord(values map[Field]any) Record {
	r := Record{values: make(map[Field]any, len(values))}
	for f, v := range values {
		if v == nil {
			continue
		}
		r.values[f] = v
	}
	return r
}

// Has reports whether the attribute is present.
func (r Record) Has(f Field) bool {
	_, ok := r.values[f]
	return ok
}

// Text returns a text attribute.
func (r Record) Text(f Field) (string, bool) {
	s, ok := r.values[f].(string)
	return s, ok
}

// Number returns a numeric attribute as float64.
// Handles the int, float64 and decimal storage forms.
func (r Record) Number(f Field) (float64, bool) {
	switch v := r.values[f].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case decimal.Decimal:
		return v.InexactFloat64(), true
	}
	return 0, false
}

// Decimal returns a numeric attribute as an exact decimal.
func (r Record) Decimal(f Field) (decimal.Decimal, bool) {
	switch v := r.values[f].(type) {
	case decimal.Decimal:
		return v, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case float64:
		return decimal.NewFromFloat(v), true
	}
	return decimal.Decimal{}, false
}

// Time returns a timestamp attribute.
func (r Record) Time(f Field) (time.Time, bool) {
	t, ok := r.values[f].(time.Time)
	return t, ok
}

// Key returns a canonical string form of the attribute, suitable for distinct
// counting. Absent attributes report false.
func (r Record) Key(f Field) (string, bool) {
	switch v := r.values[f].(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case decimal.Decimal:
		return v.String(), true
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), true
	}
	return "", false
}
