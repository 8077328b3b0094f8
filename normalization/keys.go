package normalization

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"planact/table"
)

// Join keys arrive as numbers in one file, padded text in another and
// "105.0" in a third. Everything that takes part in a merge goes through
// the helpers below so both sides of every join agree on the text.

var errNotNumeric = errors.New("not a number")

// maxExactInteger bounds the floats converted to integer schedule numbers.
const maxExactInteger = 1e15

// NormalizeSchedule returns the canonical text of a schedule number: trimmed,
// with whole numbers rendered without a decimal part. ok is false for blank
// values and the literal "nan" produced by stringified missing cells.
// NormalizeSchedule is idempotent.
func NormalizeSchedule(v table.Value) (string, bool) {
	if v.IsBlank() {
		return "", false
	}
	if f, ok := v.Float(); ok {
		return table.FormatNumber(f), true
	}
	s := strings.TrimSpace(v.Text())
	if strings.EqualFold(s, "nan") {
		return "", false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return table.FormatNumber(f), true
	}
	return s, true
}

// ScheduleKey is the case-folded form of NormalizeSchedule used for matching.
func ScheduleKey(v table.Value) string {
	s, _ := NormalizeSchedule(v)
	return strings.ToUpper(s)
}

// CoerceSchedule applies the order-book rule: parse as a number, anything
// unparseable becomes 0, and the result is an integer string. collapsed
// reports that a non-numeric or blank value was mapped to "0".
func CoerceSchedule(v table.Value) (s string, collapsed bool) {
	f, err := ParseNumber(v)
	if err != nil || math.Abs(f) >= maxExactInteger {
		return "0", true
	}
	return strconv.FormatInt(int64(f), 10), false
}

// IntegerSchedule converts a schedule to integer-then-string form,
// stripping decimal artifacts such as "105.0".
func IntegerSchedule(s string) (string, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= maxExactInteger {
		return "", errNotNumeric
	}
	return strconv.FormatInt(int64(f), 10), nil
}

// TextKey renders a value as a trimmed string key; numbers lose any ".0".
func TextKey(v table.Value) string {
	return strings.TrimSpace(v.Text())
}

// ParseNumber coerces a cell to a number. Blank cells and text that is not a
// number (after removing thousands separators) are errors.
func ParseNumber(v table.Value) (float64, error) {
	if f, ok := v.Float(); ok {
		return f, nil
	}
	raw, ok := v.Raw()
	if !ok {
		return 0, errNotNumeric
	}
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, errNotNumeric
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumeric
	}
	return f, nil
}

// ParseInteger coerces a cell to a whole number. "7" and 7.0 are accepted,
// 7.5 and "seven" are not.
func ParseInteger(v table.Value) (int64, error) {
	f, err := ParseNumber(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s is not a whole number", table.FormatNumber(f))
	}
	if math.Abs(f) >= maxExactInteger {
		return 0, fmt.Errorf("%s is out of range", table.FormatNumber(f))
	}
	return int64(f), nil
}

// excelEpoch is day zero of the 1900 date system as used by spreadsheet serials.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// maxExcelSerial is 9999-12-31.
const maxExcelSerial = 2958465

// DateOrder tells how numeric text dates such as 05/09/2024 are read.
type DateOrder int

const (
	MonthFirst DateOrder = iota
	DayFirst
)

// commonLayouts are unambiguous whatever the column order.
var commonLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006/01/02 15:04:05",
	"2-Jan-2006",
	"2-Jan-06",
	"02-Jan-2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"02.01.2006",
	"20060102",
}

var monthFirstLayouts = []string{
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/06",
	"1/2/06 15:04",
	"1-2-2006",
}

var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 3:04:05 PM",
	"2/1/2006 3:04 PM",
	"2/1/06",
	"2/1/06 15:04",
	"2-1-2006",
}

// ParseDate coerces a cell to a calendar day, reading numeric text month first.
func ParseDate(v table.Value) (time.Time, error) {
	return ParseDateOrder(v, MonthFirst)
}

// ParseDateOrder coerces a cell to a calendar day. Spreadsheet serial numbers
// are accepted as numbers and as numeric text. Text is tried against the
// common export layouts, then in the given order, then in the other order.
func ParseDateOrder(v table.Value, order DateOrder) (time.Time, error) {
	if t, ok := v.Time(); ok {
		return t, nil
	}
	if f, ok := v.Float(); ok {
		return serialDate(f)
	}
	s := strings.TrimSpace(v.Text())
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	preferred, fallback := monthFirstLayouts, dayFirstLayouts
	if order == DayFirst {
		preferred, fallback = fallback, preferred
	}
	for _, layouts := range [][]string{commonLayouts, preferred, fallback} {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				y, m, d := t.Date()
				return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
			}
		}
	}
	if f, err := ParseNumber(table.String(s)); err == nil {
		return serialDate(f)
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func serialDate(f float64) (time.Time, error) {
	if f < 1 || f > maxExcelSerial {
		return time.Time{}, fmt.Errorf("serial %s is out of range", table.FormatNumber(f))
	}
	return excelEpoch.AddDate(0, 0, int(f)), nil
}

// InferDateOrder reads a column day first when any of its text dates starts
// with a number above 12, as in 19/09/2024.
func InferDateOrder(vals []table.Value) DateOrder {
	for _, v := range vals {
		raw, ok := v.Raw()
		if !ok {
			continue
		}
		s := strings.TrimSpace(raw)
		sep := strings.IndexAny(s, "/-.")
		if sep < 1 || sep > 2 {
			continue
		}
		if n, err := strconv.Atoi(s[:sep]); err == nil && n > 12 && n <= 31 {
			return DayFirst
		}
	}
	return MonthFirst
}

// DateLabel formats a plan column header as YYYY-MM-DD when it is a date and
// returns the header text unchanged otherwise.
func DateLabel(header string) string {
	return DateLabelOrder(header, MonthFirst)
}

// DateLabelOrder is DateLabel with an explicit order for numeric headers.
func DateLabelOrder(header string, order DateOrder) string {
	t, err := ParseDateOrder(table.String(header), order)
	if err != nil {
		return header
	}
	return t.Format(table.DateLayout)
}

// CompareSchedules orders schedule numbers numerically, then text after numbers.
func CompareSchedules(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
