// Package table provides the in-memory tabular model shared by the importers,
// the normalization stages and the report exporter.
package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used in keys and exports.
const DateLayout = "2006-01-02"

// Kind is the type of a cell value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindDate
)

// String returns the kind name used in log attributes.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// Value is one typed cell. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	f    float64
	t    time.Time
}

// Null returns the missing value.
func Null() Value { return Value{} }

// String returns a text value. Empty text is stored as-is; use Text to render.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number returns a numeric value. NaN is treated as null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, f: f}
}

// Date returns a calendar-day value truncated to midnight UTC.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsBlank reports whether the value is null or whitespace-only text.
func (v Value) IsBlank() bool {
	return v.kind == KindNull || (v.kind == KindString && strings.TrimSpace(v.s) == "")
}

// Float returns the numeric payload.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.f, true
}

// Time returns the date payload.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.t, true
}

// Raw returns the string payload without trimming.
func (v Value) Raw() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Text renders the value the way it appears in join keys and exports:
// whole numbers without a decimal part, dates as YYYY-MM-DD, null as "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return FormatNumber(v.f)
	case KindDate:
		return v.t.Format(DateLayout)
	default:
		return ""
	}
}

// Interface returns the payload as a plain Go value for spreadsheet writers.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return v.f
	case KindDate:
		return v.t
	default:
		return nil
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindNumber:
		return v.f == o.f
	case KindDate:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// MarshalJSON renders null, numbers, text and ISO dates.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.s)
	case KindNumber:
		if math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.f)
	case KindDate:
		return json.Marshal(v.t.Format(DateLayout))
	default:
		return []byte("null"), nil
	}
}

// FormatNumber formats whole numbers without a trailing ".0".
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
