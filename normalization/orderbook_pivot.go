package normalization

import (
	"strings"
	"time"

	"planact/quality"
	"planact/table"
)

// PivotKey identifies one row of the order-book pivot.
type PivotKey struct {
	Schedule   string
	VPO        string
	SampleCode string
	TechClass  string
	PED        time.Time
	HasPED     bool
}

// PivotRow is one summarized order-book entry.
type PivotRow struct {
	PivotKey
	COQty   float64
	SewGood float64
}

// OrderBookPivot summarizes the order book per (schedule, VPO, sample code,
// tech class, PED). Keys that only differ by case or surrounding spaces are
// reported in Duplicates and left as separate rows.
type OrderBookPivot struct {
	Rows       []PivotRow
	Duplicates []PivotKey
	Warnings   quality.Warnings
}

// HasDuplicates reports whether two pivot rows share a folded key.
func (p *OrderBookPivot) HasDuplicates() bool { return len(p.Duplicates) > 0 }

func (k PivotKey) folded() PivotKey {
	fold := func(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
	return PivotKey{
		Schedule:   fold(k.Schedule),
		VPO:        fold(k.VPO),
		SampleCode: fold(k.SampleCode),
		TechClass:  fold(k.TechClass),
		PED:        k.PED,
		HasPED:     k.HasPED,
	}
}

// BuildOrderBookPivot sums CO quantity and good output per pivot key.
// Groups without a PED are kept with an empty PED.
func BuildOrderBookPivot(groups []OrderGroup) *OrderBookPivot {
	out := &OrderBookPivot{}
	index := make(map[PivotKey]int)
	for _, g := range groups {
		k := PivotKey{
			Schedule:   g.Schedule,
			VPO:        g.VPO,
			SampleCode: g.SampleCode,
			TechClass:  g.TechClass,
			PED:        g.PED,
			HasPED:     g.HasPED,
		}
		if i, ok := index[k]; ok {
			out.Rows[i].COQty += g.COQty
			out.Rows[i].SewGood += g.SewGood
			continue
		}
		index[k] = len(out.Rows)
		out.Rows = append(out.Rows, PivotRow{PivotKey: k, COQty: g.COQty, SewGood: g.SewGood})
	}

	seen := make(map[PivotKey]bool, len(out.Rows))
	for _, r := range out.Rows {
		f := r.folded()
		if seen[f] {
			out.Duplicates = append(out.Duplicates, r.PivotKey)
			continue
		}
		seen[f] = true
	}
	out.Warnings.Add("order book pivot", quality.CodeDuplicatePivotKey, len(out.Duplicates),
		"%d pivot keys differ only by case or spacing and were kept as separate rows", len(out.Duplicates))
	return out
}

// Table renders the pivot for the VPO-level join.
func (p *OrderBookPivot) Table() *table.Table {
	t := table.New(ColScheduleNo, ColVPO, ColSampleCode, ColTechClass, ColPED, ColCOQty, ColSewGood)
	for _, r := range p.Rows {
		t.MustAddRow(
			table.String(r.Schedule), table.String(r.VPO), table.String(r.SampleCode),
			table.String(r.TechClass), dateValue(r.PED, r.HasPED),
			table.Number(r.COQty), table.Number(r.SewGood),
		)
	}
	return t
}
