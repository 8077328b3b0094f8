package quality

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingInput is matched by MissingInputsError via errors.Is.
var ErrMissingInput = errors.New("required input file missing")

// ValidationError reports a missing required column or a value that breaks a
// structural assumption. It is fatal to the run.
type ValidationError struct {
	Source string // input role, e.g. "order book"
	Column string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Source)
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Column != "" {
		fmt.Fprintf(&b, " (column %q", e.Column)
		if e.Value != "" {
			fmt.Fprintf(&b, ", value %q", e.Value)
		}
		b.WriteString(")")
	}
	return b.String()
}

// ParseError reports a value that cannot be coerced to its expected type.
// Row-level parse errors are logged and the row dropped; a ParseError returned
// from a stage means the value was needed for a join key.
type ParseError struct {
	Source string
	Column string
	Value  string
	Row    int // 1-based data row, 0 when unknown
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: cannot parse %q in column %q", e.Source, e.Value, e.Column)
	if e.Row > 0 {
		msg += fmt.Sprintf(" at row %d", e.Row)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingInputsError lists every input role that was not supplied.
type MissingInputsError struct {
	Roles []string
}

func (e *MissingInputsError) Error() string {
	return "please upload the following required files: " + strings.Join(e.Roles, ", ")
}

func (e *MissingInputsError) Is(target error) bool { return target == ErrMissingInput }

// IsUserError reports whether err should be shown to the user verbatim.
func IsUserError(err error) bool {
	var ve *ValidationError
	var pe *ParseError
	var me *MissingInputsError
	return errors.As(err, &ve) || errors.As(err, &pe) || errors.As(err, &me)
}
