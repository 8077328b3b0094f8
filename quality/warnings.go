package quality

import "fmt"

// Warning codes surfaced to the user without aborting the run.
const (
	CodeDroppedRows       = "dropped_rows"
	CodeDuplicatePivotKey = "duplicate_pivot_keys"
	CodeMissingActuals    = "missing_actuals"
	CodeNonDatePlanColumn = "non_date_plan_column"
	CodeScheduleCollapsed = "schedule_collapsed_to_zero"
)

// Warning is a DataQualityWarning: a non-fatal data-quality signal.
type Warning struct {
	Stage   string `json:"stage"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
}

// Warnings collects warnings in the order they were raised.
// The zero value is ready to use.
type Warnings struct {
	items []Warning
}

// Add records a warning. Warnings with a zero count are ignored.
func (ws *Warnings) Add(stage, code string, count int, format string, args ...interface{}) {
	if count <= 0 {
		return
	}
	ws.items = append(ws.items, Warning{
		Stage:   stage,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Count:   count,
	})
}

// Merge appends the warnings of other.
func (ws *Warnings) Merge(other Warnings) {
	ws.items = append(ws.items, other.items...)
}

// List returns a copy of the collected warnings.
func (ws *Warnings) List() []Warning {
	return append([]Warning(nil), ws.items...)
}

// Len returns the number of warnings.
func (ws *Warnings) Len() int { return len(ws.items) }

// Has reports whether a warning with the given code was raised.
func (ws *Warnings) Has(code string) bool {
	for _, w := range ws.items {
		if w.Code == code {
			return true
		}
	}
	return false
}
