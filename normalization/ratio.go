package normalization

import (
	"encoding/json"
	"strconv"

	"planact/table"
)

// Ratio is a percentage whose denominator may be zero. An undefined ratio is
// exported as an empty cell, never as infinity.
type Ratio struct {
	value   float64
	defined bool
}

// Percent returns num/den*100, undefined when den is zero.
func Percent(num, den float64) Ratio {
	if den == 0 {
		return Ratio{}
	}
	return Ratio{value: num / den * 100, defined: true}
}

// Defined reports whether the denominator was non-zero.
func (r Ratio) Defined() bool { return r.defined }

// Float returns the percentage.
func (r Ratio) Float() (float64, bool) { return r.value, r.defined }

// Value converts the ratio to a table cell.
func (r Ratio) Value() table.Value {
	if !r.defined {
		return table.Null()
	}
	return table.Number(r.value)
}

func (r Ratio) String() string {
	if !r.defined {
		return "undefined"
	}
	return strconv.FormatFloat(r.value, 'f', 2, 64)
}

// MarshalJSON renders undefined ratios as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}
