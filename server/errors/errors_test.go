package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"planact/quality"
)

func TestFromPipeline(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{
			name:        "missing column",
			err:         &quality.ValidationError{Source: "order book", Column: "PED", Reason: "required column missing"},
			wantCode:    http.StatusBadRequest,
			wantMessage: `order book: required column missing (column "PED")`,
		},
		{
			name:        "wrapped parse error",
			err:         fmt.Errorf("stage: %w", &quality.ParseError{Source: "shopfloor", Column: "Module", Value: "M3"}),
			wantCode:    http.StatusBadRequest,
			wantMessage: `stage: shopfloor: cannot parse "M3" in column "Module"`,
		},
		{
			name:        "missing inputs",
			err:         &quality.MissingInputsError{Roles: []string{"Order Book"}},
			wantCode:    http.StatusBadRequest,
			wantMessage: "please upload the following required files: Order Book",
		},
		{
			name:        "unexpected",
			err:         errors.New("disk on fire"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromPipeline(tt.err)
			assert.Equal(t, tt.wantCode, appErr.StatusCode())
			assert.Equal(t, tt.wantMessage, appErr.UserMessage())
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
	assert.Nil(t, FromPipeline(nil))
}

func TestWrapError(t *testing.T) {
	base := NewValidationError("bad upload", nil)
	wrapped := WrapError(base, "preview")
	assert.Equal(t, http.StatusBadRequest, wrapped.Code)
	assert.Equal(t, "preview: bad upload", wrapped.Message)

	internal := WrapError(errors.New("boom"), "export")
	assert.Equal(t, http.StatusInternalServerError, internal.Code)
	assert.Nil(t, WrapError(nil, "x"))
}

func TestErrorMetricsCollector(t *testing.T) {
	emc := NewErrorMetricsCollector()
	emc.RecordError(NewValidationError("bad", nil), "/api/reports/preview", "req-1")
	emc.RecordError(NewInternalError("boom", errors.New("x")), "/api/reports/export", "req-2")
	emc.RecordError(nil, "/ignored", "")

	m := emc.Snapshot()
	assert.Equal(t, int64(2), m.TotalErrors)
	assert.Equal(t, int64(1), m.ErrorsByCode[http.StatusBadRequest])
	assert.Equal(t, int64(1), m.ErrorsByEndpoint["/api/reports/export"])
	assert.Len(t, m.LastErrors, 2)
	assert.Equal(t, "req-1", m.LastErrors[0].RequestID)
}
