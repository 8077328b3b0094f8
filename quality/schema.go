package quality

import (
	"strings"
	"unicode/utf8"
)

// ColumnSource is the part of a table needed to check its schema.
type ColumnSource interface {
	Require(cols ...string) []string
}

// RequireColumns fails with a ValidationError naming the first missing column.
func RequireColumns(source string, t ColumnSource, cols ...string) error {
	missing := t.Require(cols...)
	if len(missing) == 0 {
		return nil
	}
	reason := "required column missing"
	if len(missing) > 1 {
		reason = "required columns missing: " + strings.Join(missing, ", ")
	}
	return &ValidationError{Source: source, Column: missing[0], Reason: reason}
}

// MinStyleCodeLength is the shortest customer style code a sample code can be cut from.
const MinStyleCodeLength = 6

// ValidateStyleCode checks that a customer style code is long enough to
// strip its two-character prefix and four-character suffix.
func ValidateStyleCode(source, column, style string) error {
	if utf8.RuneCountInString(style) < MinStyleCodeLength {
		return &ValidationError{
			Source: source,
			Column: column,
			Value:  style,
			Reason: "style code shorter than 6 characters",
		}
	}
	return nil
}
