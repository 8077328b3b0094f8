package table

import (
	"fmt"
	"sort"
	"strings"
)

// Table is an ordered set of rows over named columns.
// Stages treat tables as immutable snapshots: every operation returns a new Table.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// Row is a read-only view of one table row.
type Row struct {
	t    *Table
	vals []Value
}

// New creates an empty table with the given columns.
// Duplicate column names panic: callers build column lists from schemas.
func New(columns ...string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c]; dup {
			panic(fmt.Sprintf("table: duplicate column %q", c))
		}
		t.index[c] = i
	}
	return t
}

// AddRow appends a row. The number of values must match the column count.
func (t *Table) AddRow(vals ...Value) error {
	if len(vals) != len(t.columns) {
		return fmt.Errorf("table: row has %d values, want %d", len(vals), len(t.columns))
	}
	t.rows = append(t.rows, append([]Value(nil), vals...))
	return nil
}

// MustAddRow is AddRow for rows built from the table's own column list.
func (t *Table) MustAddRow(vals ...Value) {
	if err := t.AddRow(vals...); err != nil {
		panic(err)
	}
}

// Columns returns a copy of the column names.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether a column exists.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Index returns the position of a column or -1.
func (t *Table) Index(col string) int {
	if i, ok := t.index[col]; ok {
		return i
	}
	return -1
}

// Value returns the cell at row i in column col; unknown columns yield null.
func (t *Table) Value(i int, col string) Value {
	j, ok := t.index[col]
	if !ok {
		return Null()
	}
	return t.rows[i][j]
}

// Column returns a copy of the values of col; unknown columns yield nil.
func (t *Table) Column(col string) []Value {
	j, ok := t.index[col]
	if !ok {
		return nil
	}
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j]
	}
	return out
}

// Row returns row i.
func (t *Table) Row(i int) Row { return Row{t: t, vals: t.rows[i]} }

// Get returns the value of col in the row.
func (r Row) Get(col string) Value {
	j, ok := r.t.index[col]
	if !ok {
		return Null()
	}
	return r.vals[j]
}

// Values returns a copy of the row values in column order.
func (r Row) Values() []Value { return append([]Value(nil), r.vals...) }

// Require returns the columns from cols that the table lacks.
func (t *Table) Require(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Select returns a table with only the named columns, in the given order.
// Unknown columns are skipped.
func (t *Table) Select(cols ...string) *Table {
	var keep []string
	for _, c := range cols {
		if t.Has(c) {
			keep = append(keep, c)
		}
	}
	out := New(keep...)
	for _, row := range t.rows {
		vals := make([]Value, len(keep))
		for i, c := range keep {
			vals[i] = row[t.index[c]]
		}
		out.rows = append(out.rows, vals)
	}
	return out
}

// Drop returns a table without the named columns. Absent columns are ignored.
func (t *Table) Drop(cols ...string) *Table {
	skip := make(map[string]bool, len(cols))
	for _, c := range cols {
		skip[c] = true
	}
	return t.DropMatching(func(c string) bool { return skip[c] })
}

// DropMatching returns a table without the columns for which match is true.
func (t *Table) DropMatching(match func(col string) bool) *Table {
	var keep []string
	for _, c := range t.columns {
		if !match(c) {
			keep = append(keep, c)
		}
	}
	return t.Select(keep...)
}

// Rename returns a table with columns renamed according to names.
func (t *Table) Rename(names map[string]string) *Table {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		if n, ok := names[c]; ok {
			cols[i] = n
		} else {
			cols[i] = c
		}
	}
	out := New(cols...)
	out.rows = t.rows
	return out
}

// Map returns a table whose cells in col are replaced by fn(value).
func (t *Table) Map(col string, fn func(Value) Value) *Table {
	out := New(t.columns...)
	j, ok := t.index[col]
	for _, row := range t.rows {
		vals := append([]Value(nil), row...)
		if ok {
			vals[j] = fn(vals[j])
		}
		out.rows = append(out.rows, vals)
	}
	return out
}

// Filter returns the rows for which keep is true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.columns...)
	for _, row := range t.rows {
		if keep(Row{t: t, vals: row}) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.rows) {
		n = len(t.rows)
	}
	out := New(t.columns...)
	out.rows = append(out.rows, t.rows[:n]...)
	return out
}

// SortStable orders rows with less, keeping the input order of equal rows.
func (t *Table) SortStable(less func(a, b Row) bool) *Table {
	out := New(t.columns...)
	out.rows = append(out.rows, t.rows...)
	sort.SliceStable(out.rows, func(i, j int) bool {
		return less(Row{t: out, vals: out.rows[i]}, Row{t: out, vals: out.rows[j]})
	})
	return out
}

// Records returns the rows as column-name maps, for JSON previews.
func (t *Table) Records() []map[string]Value {
	recs := make([]map[string]Value, len(t.rows))
	for i, row := range t.rows {
		rec := make(map[string]Value, len(t.columns))
		for j, c := range t.columns {
			rec[c] = row[j]
		}
		recs[i] = rec
	}
	return recs
}

// IsUnnamed reports whether a column name was generated for a blank header.
func IsUnnamed(col string) bool {
	return strings.HasPrefix(col, "Unnamed")
}
