package reconcile

import (
	"log/slog"

	"planact/normalization"
	"planact/quality"
	"planact/table"
)

const stageSignoff = "sign-off"

// Signoff is the sign-off report reconciled with shop-floor actuals per
// (schedule, date).
type Signoff struct {
	Table *table.Table
	// MissingActuals counts sign-off rows with no shop-floor output; their
	// Actuals are reported as zero.
	MissingActuals int
	Warnings       quality.Warnings
}

// ReconcileSignoff sums the numeric sign-off columns per (schedule, date) and
// outer-joins them with shop-floor actuals summed over modules.
func ReconcileSignoff(raw *table.Table, floor *normalization.Shopfloor, log *slog.Logger) (*Signoff, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := quality.RequireColumns(normalization.SourceSignoff, raw,
		normalization.ColScheduleNo, normalization.ColDate); err != nil {
		return nil, err
	}
	out := &Signoff{}
	raw = raw.DropMatching(table.IsUnnamed)

	grouped, dropped := groupSignoff(raw)
	out.Warnings.Add(stageSignoff, quality.CodeDroppedRows, dropped,
		"%d sign-off rows dropped because the schedule is blank or the date could not be parsed", dropped)

	actualsCol := normalization.ColActuals
	if grouped.Has(actualsCol) {
		actualsCol = table.FlattenHeader(normalization.ColActuals, "y")
	}

	joined, err := table.Join(grouped, actualsByDay(floor), table.JoinSpec{
		Kind:    table.OuterJoin,
		LeftOn:  []string{normalization.ColScheduleNo, normalization.ColDate},
		RightOn: []string{normalization.ColScheduleNo, normalization.ColDate},
		Key:     scheduleDateKey,
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < joined.Len(); i++ {
		if joined.Value(i, actualsCol).IsNull() {
			out.MissingActuals++
		}
	}
	out.Warnings.Add(stageSignoff, quality.CodeMissingActuals, out.MissingActuals,
		"%d sign-off rows have no shop-floor actuals, reported as 0", out.MissingActuals)

	joined = joined.Map(actualsCol, func(v table.Value) table.Value {
		if v.IsNull() {
			return table.Number(0)
		}
		return v
	})
	out.Table = joined.SortStable(byScheduleThenDate)

	log.Info("sign-off reconciled", "rows", out.Table.Len(), "missing_actuals", out.MissingActuals)
	return out, nil
}

type signoffGroup struct {
	schedule string
	date     table.Value
	sums     []float64
}

// groupSignoff sums every numeric column per (schedule, date). A column is
// numeric when all its non-blank cells parse as numbers.
func groupSignoff(raw *table.Table) (*table.Table, int) {
	var numeric []string
	for _, c := range raw.Columns() {
		if c == normalization.ColScheduleNo || c == normalization.ColDate {
			continue
		}
		if isNumericColumn(raw, c) {
			numeric = append(numeric, c)
		}
	}

	groups := make(map[dayKey]*signoffGroup)
	var order []dayKey
	dropped := 0
	dateOrder := normalization.InferDateOrder(raw.Column(normalization.ColDate))
	for i := 0; i < raw.Len(); i++ {
		row := raw.Row(i)
		schedule, ok := normalization.NormalizeSchedule(row.Get(normalization.ColScheduleNo))
		if !ok {
			dropped++
			continue
		}
		date, err := normalization.ParseDateOrder(row.Get(normalization.ColDate), dateOrder)
		if err != nil {
			dropped++
			continue
		}
		k := keyOf(schedule, date)
		g, ok := groups[k]
		if !ok {
			g = &signoffGroup{schedule: schedule, date: table.Date(date), sums: make([]float64, len(numeric))}
			groups[k] = g
			order = append(order, k)
		}
		for j, c := range numeric {
			if f, err := normalization.ParseNumber(row.Get(c)); err == nil {
				g.sums[j] += f
			}
		}
	}

	cols := append([]string{normalization.ColScheduleNo, normalization.ColDate}, numeric...)
	t := table.New(cols...)
	for _, k := range order {
		g := groups[k]
		vals := []table.Value{table.String(g.schedule), g.date}
		for _, s := range g.sums {
			vals = append(vals, table.Number(s))
		}
		t.MustAddRow(vals...)
	}
	return t, dropped
}

func isNumericColumn(t *table.Table, col string) bool {
	seen := false
	for i := 0; i < t.Len(); i++ {
		v := t.Value(i, col)
		if v.IsBlank() {
			continue
		}
		if _, err := normalization.ParseNumber(v); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

// actualsByDay sums shop-floor output over modules.
func actualsByDay(floor *normalization.Shopfloor) *table.Table {
	sums := make(map[dayKey]float64)
	first := make(map[dayKey]normalization.ShopfloorRecord)
	var order []dayKey
	for _, r := range floor.Records {
		k := keyOf(r.Schedule, r.Date)
		if _, ok := first[k]; !ok {
			first[k] = r
			order = append(order, k)
		}
		sums[k] += r.Actuals
	}
	t := table.New(normalization.ColScheduleNo, normalization.ColDate, normalization.ColActuals)
	for _, k := range order {
		r := first[k]
		t.MustAddRow(table.String(r.Schedule), table.Date(r.Date), table.Number(sums[k]))
	}
	return t
}

func scheduleDateKey(col string, v table.Value) string {
	if col == normalization.ColScheduleNo {
		return normalization.ScheduleKey(v)
	}
	return v.Text()
}

func byScheduleThenDate(a, b table.Row) bool {
	sa := a.Get(normalization.ColScheduleNo).Text()
	sb := b.Get(normalization.ColScheduleNo).Text()
	if c := normalization.CompareSchedules(sa, sb); c != 0 {
		return c < 0
	}
	return a.Get(normalization.ColDate).Text() < b.Get(normalization.ColDate).Text()
}
