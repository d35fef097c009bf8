package pipeline

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value is an aggregate that may be absent. An absent value is never zero:
// it means the statistic is undefined for the group.
type Value struct {
	Float float64
	Valid bool
}

// Present wraps a defined value.
func Present(v float64) Value {
	return Value{Float: v, Valid: true}
}

// Absent is the undefined value.
var Absent = Value{}

// Get returns the value and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.Float, v.Valid
}

// MarshalJSON encodes absent values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v.Float, 'g', -1, 64)), nil
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Absent
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Present(f)
	return nil
}
