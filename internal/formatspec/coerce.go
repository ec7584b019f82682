package formatspec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when coercing timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// Value is a typed cell produced by Coerce. Exactly one field is meaningful,
// selected by Type.
type Value struct {
	Type  ColumnType
	Str   string
	Float float64
	Int   int64
	Time  time.Time
}

// Number returns the numeric value of a float or integer cell.
func (v Value) Number() (float64, bool) {
	switch v.Type {
	case TypeFloat:
		return v.Float, true
	case TypeInteger:
		return float64(v.Int), true
	default:
		return 0, false
	}
}

// ErrEmpty is returned when a value is blank.
var ErrEmpty = errors.New("value is empty")

// Coerce converts a raw cell to its declared type.
func Coerce(t ColumnType, raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{Type: t}, ErrEmpty
	}

	switch t {
	case TypeString:
		return Value{Type: t, Str: s}, nil
	case TypeFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{Type: t}, fmt.Errorf("not a decimal number: %q", s)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{Type: t}, fmt.Errorf("not a finite number: %q", s)
		}
		return Value{Type: t, Float: f}, nil
	case TypeInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{Type: t}, fmt.Errorf("not an integer: %q", s)
		}
		return Value{Type: t, Int: n}, nil
	case TypeTimestamp:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return Value{Type: t, Time: ts}, nil
			}
		}
		return Value{Type: t}, fmt.Errorf("not a date or timestamp: %q (expected YYYY-MM-DD or RFC 3339)", s)
	default:
		return Value{Type: t}, fmt.Errorf("unsupported column type: %s", t)
	}
}
