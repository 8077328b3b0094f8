package table

import "strings"

// JoinKind selects which unmatched rows a join keeps.
type JoinKind int

const (
	// LeftJoin keeps every left row; unmatched right columns are null.
	LeftJoin JoinKind = iota
	// OuterJoin also keeps right rows with no left match.
	OuterJoin
)

// JoinSpec describes a key-based join.
type JoinSpec struct {
	Kind    JoinKind
	LeftOn  []string
	RightOn []string
	// Key normalizes a key cell before comparison; nil compares Value.Text().
	Key func(col string, v Value) string
	// Suffixes disambiguate non-key columns present on both sides.
	// Defaults to "_x" and "_y".
	Suffixes [2]string
}

// Join combines left and right on the key columns named in spec.
//
// Key columns with the same name on both sides are emitted once and, for rows that
// only exist on the right, take the right-hand value. Each left row is repeated for
// every matching right row, so a join can fan out.
func Join(left, right *Table, spec JoinSpec) (*Table, error) {
	if len(spec.LeftOn) == 0 || len(spec.LeftOn) != len(spec.RightOn) {
		return nil, errJoinKeys
	}
	if missing := left.Require(spec.LeftOn...); len(missing) > 0 {
		return nil, &MissingColumnsError{Side: "left", Columns: missing}
	}
	if missing := right.Require(spec.RightOn...); len(missing) > 0 {
		return nil, &MissingColumnsError{Side: "right", Columns: missing}
	}
	suffixes := spec.Suffixes
	if suffixes[0] == "" && suffixes[1] == "" {
		suffixes = [2]string{"_x", "_y"}
	}
	keyFn := spec.Key
	if keyFn == nil {
		keyFn = func(_ string, v Value) string { return v.Text() }
	}

	// right key columns that merge into the left column of the same name
	shared := make(map[string]int)
	for i, rc := range spec.RightOn {
		if rc == spec.LeftOn[i] {
			shared[rc] = left.Index(rc)
		}
	}
	rightKeep := make([]int, 0, len(right.columns))
	for j, c := range right.columns {
		if _, ok := shared[c]; !ok {
			rightKeep = append(rightKeep, j)
		}
	}

	overlap := make(map[string]bool)
	for _, j := range rightKeep {
		if left.Has(right.columns[j]) {
			overlap[right.columns[j]] = true
		}
	}
	cols := make([]string, 0, len(left.columns)+len(rightKeep))
	for _, c := range left.columns {
		if overlap[c] {
			c += suffixes[0]
		}
		cols = append(cols, c)
	}
	for _, j := range rightKeep {
		c := right.columns[j]
		if overlap[c] {
			c += suffixes[1]
		}
		cols = append(cols, c)
	}
	out := New(cols...)

	rowKey := func(t *Table, row []Value, on []string) string {
		parts := make([]string, len(on))
		for i, c := range on {
			parts[i] = keyFn(c, row[t.index[c]])
		}
		return strings.Join(parts, "\x1f")
	}

	byKey := make(map[string][]int, len(right.rows))
	for j, row := range right.rows {
		k := rowKey(right, row, spec.RightOn)
		byKey[k] = append(byKey[k], j)
	}
	matched := make([]bool, len(right.rows))

	emit := func(l, r []Value) {
		vals := make([]Value, 0, len(cols))
		if l != nil {
			vals = append(vals, l...)
		} else {
			vals = append(vals, make([]Value, len(left.columns))...)
			for name, li := range shared {
				vals[li] = r[right.index[name]]
			}
		}
		for _, j := range rightKeep {
			if r != nil {
				vals = append(vals, r[j])
			} else {
				vals = append(vals, Null())
			}
		}
		out.rows = append(out.rows, vals)
	}

	for _, l := range left.rows {
		matches := byKey[rowKey(left, l, spec.LeftOn)]
		if len(matches) == 0 {
			emit(l, nil)
			continue
		}
		for _, j := range matches {
			matched[j] = true
			emit(l, right.rows[j])
		}
	}
	if spec.Kind == OuterJoin {
		for j, r := range right.rows {
			if !matched[j] {
				emit(nil, r)
			}
		}
	}
	return out, nil
}
