package table

import (
	"errors"
	"fmt"
	"strings"
)

var errJoinKeys = errors.New("table: join needs the same non-zero number of key columns on both sides")

// MissingColumnsError reports join key columns absent from one side.
type MissingColumnsError struct {
	Side    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("table: %s side is missing key columns: %s", e.Side, strings.Join(e.Columns, ", "))
}
