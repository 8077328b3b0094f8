package quality

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type columns []string

func (c columns) Require(cols ...string) []string {
	have := make(map[string]bool, len(c))
	for _, name := range c {
		have[name] = true
	}
	var missing []string
	for _, col := range cols {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

func TestValidationError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "reason only",
			err:  &ValidationError{Source: "loading plan", Reason: "no date columns"},
			want: "loading plan: no date columns",
		},
		{
			name: "with column",
			err:  &ValidationError{Source: "order book", Column: "PED", Reason: "required column missing"},
			want: `order book: required column missing (column "PED")`,
		},
		{
			name: "with value",
			err:  &ValidationError{Source: "order book", Column: "Customer Style", Value: "AB1", Reason: "too short"},
			want: `order book: too short (column "Customer Style", value "AB1")`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	_, cause := strconv.Atoi("M3")
	err := fmt.Errorf("stage: %w", &ParseError{Source: "shopfloor", Column: "Module", Value: "M3", Row: 4, Err: cause})

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 4, pe.Row)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
	assert.Contains(t, err.Error(), `cannot parse "M3" in column "Module" at row 4`)
}

func TestMissingInputsError(t *testing.T) {
	err := &MissingInputsError{Roles: []string{"Order Book", "Signoff Data"}}

	assert.Equal(t, "please upload the following required files: Order Book, Signoff Data", err.Error())
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(&ValidationError{Source: "x", Reason: "y"}))
	assert.True(t, IsUserError(fmt.Errorf("wrapped: %w", &ParseError{Source: "x"})))
	assert.True(t, IsUserError(&MissingInputsError{}))
	assert.False(t, IsUserError(errors.New("disk full")))
}

func TestRequireColumns(t *testing.T) {
	have := columns{"Schedule No", "Date"}

	assert.NoError(t, RequireColumns("sign-off", have, "Schedule No", "Date"))

	err := RequireColumns("sign-off", have, "Schedule No", "Qty")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Qty", ve.Column)
	assert.Equal(t, "required column missing", ve.Reason)

	err = RequireColumns("sign-off", columns{}, "Schedule No", "Date")
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Schedule No", ve.Column)
	assert.Equal(t, "required columns missing: Schedule No, Date", ve.Reason)
}

func TestValidateStyleCode(t *testing.T) {
	assert.NoError(t, ValidateStyleCode("order book", "Customer Style", "AB1234XY"))
	assert.NoError(t, ValidateStyleCode("order book", "Customer Style", "AB12XY"))

	err := ValidateStyleCode("order book", "Customer Style", "AB12X")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "AB12X", ve.Value)
}

func TestWarnings(t *testing.T) {
	var ws Warnings
	ws.Add("shopfloor", CodeDroppedRows, 0, "never recorded")
	ws.Add("shopfloor", CodeDroppedRows, 2, "%d rows dropped", 2)

	var other Warnings
	other.Add("sign-off", CodeMissingActuals, 1, "%d without actuals", 1)
	ws.Merge(other)

	require.Equal(t, 2, ws.Len())
	assert.True(t, ws.Has(CodeMissingActuals))
	assert.False(t, ws.Has(CodeDuplicatePivotKey))

	list := ws.List()
	assert.Equal(t, Warning{Stage: "shopfloor", Code: CodeDroppedRows, Message: "2 rows dropped", Count: 2}, list[0])
	assert.Equal(t, "[sign-off] 1 without actuals", list[1].String())

	list[0].Message = "changed"
	assert.Equal(t, "2 rows dropped", ws.List()[0].Message)
}
