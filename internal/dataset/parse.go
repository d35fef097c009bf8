package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// timeLayouts are tried in order. The source writes "2006-01-02 15:04:05"
// without a zone; such values are read as UTC.
var timeLayouts = []string{
	time.DateTime,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// parseCell converts one raw cell into the stored form for f.
// A blank cell returns (nil, nil): the attribute is absent.
func parseCell(f Field, raw string) (any, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}

	switch f {
	case PaymentValue:
		return parseAmount(s)
	case ReviewScore:
		return parseScore(s)
	}

	if kind, _ := f.Kind(); kind == KindTime {
		return parseTimestamp(s)
	}
	return s, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errNegativeAmount
	}
	return d, nil
}

// parseScore accepts "4" as well as the float form "4.0" written by dataframe exports.
func parseScore(s string) (int, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || v < 1 || v > 5 {
		return 0, errScoreOutOfRange
	}
	return int(v), nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errUnknownTimeLayout
}
