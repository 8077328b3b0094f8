package normalization

import (
	"sort"
	"strings"
	"time"

	"planact/quality"
	"planact/table"
)

// OrderLine is one order-book row with its derived progress metrics.
type OrderLine struct {
	Row        int
	Schedule   string
	VPO        string
	TechClass  string
	CustStyle  string
	SampleCode string
	PED        time.Time
	HasPED     bool

	COQty        float64
	CumCut       float64
	CumSewIn     float64
	CumSewOut    float64
	CumSewOutRej float64
	Delivered    float64

	CutBalance float64
	SewGood    float64
	IMS        float64
	BalToShip  float64
	BalToSew   float64

	CutPct      Ratio
	SewPct      Ratio
	RejPct      Ratio
	DelPct      Ratio
	BalToSewPct Ratio
}

// OrderGroup aggregates order lines sharing (schedule, VPO, sample code, tech class).
type OrderGroup struct {
	Schedule   string
	VPO        string
	SampleCode string
	TechClass  string
	COQty      float64
	SewGood    float64
	PED        time.Time // latest PED in the group
	HasPED     bool
}

// OrderBook is the normalized order book.
type OrderBook struct {
	Lines    []OrderLine
	Groups   []OrderGroup
	Warnings quality.Warnings
}

var orderBookColumns = []string{
	ColCustStyle, ColCumCut, ColCOQty, ColCumSewOut, ColCumSewOutRej,
	ColCumSewIn, ColDelivered, ColScheduleNo, ColVPO, ColTechClass, ColPED,
}

var orderBookQuantities = []string{
	ColCOQty, ColCumCut, ColCumSewIn, ColCumSewOut, ColCumSewOutRej, ColDelivered,
}

// SampleCode cuts the two-character prefix and four-character suffix off a
// customer style code.
func SampleCode(style string) (string, error) {
	style = strings.TrimSpace(style)
	if err := quality.ValidateStyleCode(SourceOrderBook, ColCustStyle, style); err != nil {
		return "", err
	}
	r := []rune(style)
	return string(r[2 : len(r)-4]), nil
}

// NormalizeOrderBook derives sample codes, progress metrics and per-group totals.
//
// Schedule numbers are coerced to integers and any value that is not a number
// becomes "0"; those rows share one key and are reported with a warning.
func NormalizeOrderBook(raw *table.Table, opts Options) (*OrderBook, error) {
	if err := quality.RequireColumns(SourceOrderBook, raw, orderBookColumns...); err != nil {
		return nil, err
	}
	log := opts.logger().With("stage", SourceOrderBook)
	out := &OrderBook{}
	collapsed, badQty, badPED := 0, 0, 0
	pedOrder := InferDateOrder(raw.Column(ColPED))

rows:
	for i := 0; i < raw.Len(); i++ {
		row := raw.Row(i)

		sample, err := SampleCode(row.Get(ColCustStyle).Text())
		if err != nil {
			return nil, err
		}

		qty := make(map[string]float64, len(orderBookQuantities))
		for _, col := range orderBookQuantities {
			cell := row.Get(col)
			if cell.IsBlank() {
				continue
			}
			f, err := ParseNumber(cell)
			if err != nil {
				badQty++
				log.Warn("dropping row with non-numeric quantity", "row", i+1, "column", col, "value", cell.Text())
				continue rows
			}
			qty[col] = f
		}

		schedule, wasCollapsed := CoerceSchedule(row.Get(ColScheduleNo))
		if wasCollapsed {
			collapsed++
		}

		line := OrderLine{
			Row:          i + 1,
			Schedule:     schedule,
			VPO:          TextKey(row.Get(ColVPO)),
			TechClass:    TextKey(row.Get(ColTechClass)),
			CustStyle:    strings.TrimSpace(row.Get(ColCustStyle).Text()),
			SampleCode:   sample,
			COQty:        qty[ColCOQty],
			CumCut:       qty[ColCumCut],
			CumSewIn:     qty[ColCumSewIn],
			CumSewOut:    qty[ColCumSewOut],
			CumSewOutRej: qty[ColCumSewOutRej],
			Delivered:    qty[ColDelivered],
		}
		if cell := row.Get(ColPED); !cell.IsBlank() {
			if ped, err := ParseDateOrder(cell, pedOrder); err == nil {
				line.PED, line.HasPED = ped, true
			} else {
				badPED++
			}
		}
		line.derive()
		out.Lines = append(out.Lines, line)
	}

	out.Warnings.Add(SourceOrderBook, quality.CodeScheduleCollapsed, collapsed,
		"%d order-book rows have a non-numeric %s and were grouped under schedule 0", collapsed, ColScheduleNo)
	out.Warnings.Add(SourceOrderBook, quality.CodeDroppedRows, badQty,
		"%d order-book rows dropped because a quantity is not a number", badQty)
	out.Warnings.Add(SourceOrderBook, quality.CodeDroppedRows, badPED,
		"%d order-book rows have an unparseable %s, treated as missing", badPED, ColPED)

	out.Groups = groupOrderLines(out.Lines)
	log.Info("order book normalized", "input_rows", raw.Len(), "lines", len(out.Lines), "groups", len(out.Groups))
	return out, nil
}

func (l *OrderLine) derive() {
	l.CutBalance = l.CumCut - l.COQty
	l.SewGood = l.CumSewOut - l.CumSewOutRej
	l.IMS = l.CumSewIn - l.CumSewOut
	l.BalToShip = l.Delivered - l.COQty
	l.BalToSew = l.SewGood - l.COQty

	l.CutPct = Percent(l.CumCut, l.COQty)
	l.SewPct = Percent(l.CumSewOut, l.COQty)
	l.RejPct = Percent(l.CumSewOutRej, l.CumSewOut)
	l.DelPct = Percent(l.Delivered, l.COQty)
	l.BalToSewPct = Percent(l.SewGood, l.COQty)
}

type orderGroupKey struct {
	schedule, vpo, sample, tech string
}

func groupOrderLines(lines []OrderLine) []OrderGroup {
	byKey := make(map[orderGroupKey]*OrderGroup)
	var groups []*OrderGroup
	for _, l := range lines {
		k := orderGroupKey{l.Schedule, l.VPO, l.SampleCode, l.TechClass}
		g, ok := byKey[k]
		if !ok {
			g = &OrderGroup{Schedule: l.Schedule, VPO: l.VPO, SampleCode: l.SampleCode, TechClass: l.TechClass}
			byKey[k] = g
			groups = append(groups, g)
		}
		g.COQty += l.COQty
		g.SewGood += l.SewGood
		if l.HasPED && (!g.HasPED || l.PED.After(g.PED)) {
			g.PED, g.HasPED = l.PED, true
		}
	}

	out := make([]OrderGroup, len(groups))
	for i, g := range groups {
		out[i] = *g
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := CompareSchedules(a.Schedule, b.Schedule); c != 0 {
			return c < 0
		}
		if a.VPO != b.VPO {
			return a.VPO < b.VPO
		}
		if a.SampleCode != b.SampleCode {
			return a.SampleCode < b.SampleCode
		}
		return a.TechClass < b.TechClass
	})
	return out
}

// LinesTable renders every order line with its derived metrics.
func (o *OrderBook) LinesTable() *table.Table {
	t := table.New(
		ColScheduleNo, ColVPO, ColCustStyle, ColSampleCode, ColTechClass, ColPED,
		ColCOQty, ColCumCut, ColCumSewIn, ColCumSewOut, ColCumSewOutRej, ColDelivered,
		ColCutBalance, ColCutPct, ColSewGood, ColSewPct, ColIMS, ColRejPct,
		ColBalToShip, ColDelPct, ColBalToSew, ColBalToSewPct,
	)
	for _, l := range o.Lines {
		t.MustAddRow(
			table.String(l.Schedule), table.String(l.VPO), table.String(l.CustStyle),
			table.String(l.SampleCode), table.String(l.TechClass), dateValue(l.PED, l.HasPED),
			table.Number(l.COQty), table.Number(l.CumCut), table.Number(l.CumSewIn),
			table.Number(l.CumSewOut), table.Number(l.CumSewOutRej), table.Number(l.Delivered),
			table.Number(l.CutBalance), l.CutPct.Value(), table.Number(l.SewGood), l.SewPct.Value(),
			table.Number(l.IMS), l.RejPct.Value(), table.Number(l.BalToShip), l.DelPct.Value(),
			table.Number(l.BalToSew), l.BalToSewPct.Value(),
		)
	}
	return t
}

// GroupsTable renders the per-group totals.
func (o *OrderBook) GroupsTable() *table.Table {
	t := table.New(ColScheduleNo, ColVPO, ColSampleCode, ColTechClass, ColCOQty, ColSewGood, ColPED)
	for _, g := range o.Groups {
		t.MustAddRow(
			table.String(g.Schedule), table.String(g.VPO), table.String(g.SampleCode),
			table.String(g.TechClass), table.Number(g.COQty), table.Number(g.SewGood),
			dateValue(g.PED, g.HasPED),
		)
	}
	return t
}

func dateValue(t time.Time, ok bool) table.Value {
	if !ok {
		return table.Null()
	}
	return table.Date(t)
}
