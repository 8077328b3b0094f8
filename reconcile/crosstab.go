package reconcile

import (
	"math"
	"sort"
	"time"

	"planact/normalization"
	"planact/table"
)

// Cross-tab value blocks, in export order.
const (
	MetricQuantity = normalization.ColQuantity
	MetricActuals  = normalization.ColActuals
)

// CrossTab is planned and actual output per schedule (rows) and date
// (columns). Each side is summed from its own records, so a plan quantity
// matched by several modules is counted once rather than once per module as
// a pivot of the merged rows would. Plan columns that are not dates have no
// cross-tab column.
type CrossTab struct {
	Schedules []string
	Dates     []time.Time
	Planned   [][]int64 // [schedule][date]
	Actual    [][]int64
}

func buildCrossTab(plan []datedPlan, actuals []normalization.ShopfloorRecord) *CrossTab {
	names := make(map[string]string)
	dateSet := make(map[time.Time]bool)
	planned := make(map[dayKey]float64)
	actual := make(map[dayKey]float64)

	addSchedule := func(s string) string {
		k := normalization.ScheduleKey(table.String(s))
		if _, ok := names[k]; !ok {
			names[k] = s
		}
		return k
	}
	for _, p := range plan {
		k := addSchedule(p.schedule)
		dateSet[p.date] = true
		planned[dayKey{k, p.date}] += p.quantity
	}
	for _, r := range actuals {
		k := addSchedule(r.Schedule)
		dateSet[r.Date] = true
		actual[dayKey{k, r.Date}] += r.Actuals
	}

	ct := &CrossTab{}
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return normalization.CompareSchedules(names[keys[i]], names[keys[j]]) < 0
	})
	for d := range dateSet {
		ct.Dates = append(ct.Dates, d)
	}
	sort.Slice(ct.Dates, func(i, j int) bool { return ct.Dates[i].Before(ct.Dates[j]) })

	for _, k := range keys {
		ct.Schedules = append(ct.Schedules, names[k])
		p := make([]int64, len(ct.Dates))
		a := make([]int64, len(ct.Dates))
		for j, d := range ct.Dates {
			p[j] = int64(math.Trunc(planned[dayKey{k, d}]))
			a[j] = int64(math.Trunc(actual[dayKey{k, d}]))
		}
		ct.Planned = append(ct.Planned, p)
		ct.Actual = append(ct.Actual, a)
	}
	return ct
}

// Columns returns the flattened headers: Schedule No, then one Quantity
// column per date, then one Actuals column per date.
func (c *CrossTab) Columns() []string {
	cols := []string{normalization.ColScheduleNo}
	for _, metric := range []string{MetricQuantity, MetricActuals} {
		for _, d := range c.Dates {
			cols = append(cols, table.FlattenHeader(metric, d.Format(table.DateLayout)))
		}
	}
	return cols
}

// Table renders the cross-tab with flattened headers.
func (c *CrossTab) Table() *table.Table {
	t := table.New(c.Columns()...)
	for i, s := range c.Schedules {
		vals := make([]table.Value, 0, 1+2*len(c.Dates))
		vals = append(vals, table.String(s))
		for _, q := range c.Planned[i] {
			vals = append(vals, table.Number(float64(q)))
		}
		for _, q := range c.Actual[i] {
			vals = append(vals, table.Number(float64(q)))
		}
		t.MustAddRow(vals...)
	}
	return t
}
