package normalization

import (
	"strings"

	"planact/quality"
	"planact/table"
)

// ProductMapping maps a style (sample code) to product descriptors.
// Columns beyond Style and Product are carried through unchanged.
type ProductMapping struct {
	Table *table.Table
}

// NormalizeProductMapping drops the helper columns, renames Master Item to
// Product and trims every text cell. Style is coerced to text so numeric
// styles still match sample codes.
func NormalizeProductMapping(raw *table.Table, opts Options) (*ProductMapping, error) {
	t := raw.Drop(ColSubItem, ColIndOnly)
	if t.Has(ColMasterItem) {
		if t.Has(ColProduct) {
			t = t.Drop(ColProduct)
		}
		t = t.Rename(map[string]string{ColMasterItem: ColProduct})
	}
	if err := quality.RequireColumns(SourceProductMapping, t, ColStyle); err != nil {
		return nil, err
	}

	for _, col := range t.Columns() {
		t = t.Map(col, trimText)
	}
	t = t.Map(ColStyle, func(v table.Value) table.Value {
		if v.IsBlank() {
			return table.Null()
		}
		return table.String(TextKey(v))
	})
	t = t.Filter(func(r table.Row) bool { return !r.Get(ColStyle).IsNull() })

	opts.logger().Info("product mapping normalized", "stage", SourceProductMapping,
		"rows", t.Len(), "columns", len(t.Columns()))
	return &ProductMapping{Table: t}, nil
}

func trimText(v table.Value) table.Value {
	s, ok := v.Raw()
	if !ok {
		return v
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return table.Null()
	}
	return table.String(s)
}
