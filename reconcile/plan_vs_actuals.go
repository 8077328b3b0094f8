// Package reconcile merges the normalized inputs into the plan-vs-actuals
// report and its side reports.
package reconcile

import (
	"log/slog"
	"sort"
	"time"

	"planact/normalization"
	"planact/quality"
	"planact/table"
)

const stagePlanVsActuals = "plan vs actuals"

// PlanActualRow pairs the planned quantity of a schedule on a day with the
// output of one module. Either side may be absent; absent quantities are zero.
// Label holds a plan column header that is not a date, such as "Total"; Date
// is zero for those rows and they never carry actuals.
type PlanActualRow struct {
	Date       time.Time
	Label      string
	Schedule   string
	Quantity   float64
	Module     string
	Actuals    float64
	HasPlan    bool
	HasActuals bool
}

// PlanVsActuals is the outer join of the loading plan and the shop-floor output.
type PlanVsActuals struct {
	Rows     []PlanActualRow
	CrossTab *CrossTab
	Warnings quality.Warnings
}

type dayKey struct {
	schedule string
	date     time.Time
}

func keyOf(schedule string, date time.Time) dayKey {
	return dayKey{schedule: normalization.ScheduleKey(table.String(schedule)), date: date}
}

// MergePlanVsActuals joins plan and actuals on (schedule, date) keeping rows
// from both sides. Plan columns whose header is not a date cannot match any
// shop-floor day; they are kept under their header label with zero actuals
// and left out of the cross-tab.
func MergePlanVsActuals(plan *normalization.LoadingPlan, floor *normalization.Shopfloor, log *slog.Logger) *PlanVsActuals {
	if log == nil {
		log = slog.Default()
	}
	out := &PlanVsActuals{}

	var entries []datedPlan
	nonDate := make(map[string]bool)
	for _, r := range plan.Records {
		d, err := normalization.ParseDate(table.String(r.Date))
		if err != nil {
			nonDate[r.Date] = true
			out.Rows = append(out.Rows, PlanActualRow{
				Label: r.Date, Schedule: r.Schedule, Quantity: r.Quantity, HasPlan: true,
			})
			continue
		}
		entries = append(entries, datedPlan{schedule: r.Schedule, date: d, quantity: r.Quantity})
	}
	if len(nonDate) > 0 {
		labels := make([]string, 0, len(nonDate))
		for l := range nonDate {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		out.Warnings.Add(stagePlanVsActuals, quality.CodeNonDatePlanColumn, len(labels),
			"loading-plan columns %q are not dates; kept with zero actuals and left out of the cross-tab", labels)
	}

	actuals := make(map[dayKey][]int)
	for i, r := range floor.Records {
		k := keyOf(r.Schedule, r.Date)
		actuals[k] = append(actuals[k], i)
	}
	matched := make([]bool, len(floor.Records))

	for _, e := range entries {
		idx := actuals[keyOf(e.schedule, e.date)]
		if len(idx) == 0 {
			out.Rows = append(out.Rows, PlanActualRow{
				Date: e.date, Schedule: e.schedule, Quantity: e.quantity, HasPlan: true,
			})
			continue
		}
		for _, i := range idx {
			matched[i] = true
			r := floor.Records[i]
			out.Rows = append(out.Rows, PlanActualRow{
				Date: e.date, Schedule: e.schedule, Quantity: e.quantity,
				Module: r.Module, Actuals: r.Actuals, HasPlan: true, HasActuals: true,
			})
		}
	}
	unplanned := 0
	for i, r := range floor.Records {
		if matched[i] {
			continue
		}
		unplanned++
		out.Rows = append(out.Rows, PlanActualRow{
			Date: r.Date, Schedule: r.Schedule, Module: r.Module, Actuals: r.Actuals, HasActuals: true,
		})
	}

	sort.SliceStable(out.Rows, func(i, j int) bool {
		a, b := out.Rows[i], out.Rows[j]
		if c := normalization.CompareSchedules(a.Schedule, b.Schedule); c != 0 {
			return c < 0
		}
		if (a.Label == "") != (b.Label == "") {
			return a.Label == ""
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Module < b.Module
	})

	out.CrossTab = buildCrossTab(entries, floor.Records)
	log.Info("plan merged with actuals",
		"rows", len(out.Rows),
		"unplanned_actuals", unplanned,
		"schedules", len(out.CrossTab.Schedules),
		"dates", len(out.CrossTab.Dates))
	return out
}

// datedPlan is a plan record whose date label parsed.
type datedPlan struct {
	schedule string
	date     time.Time
	quantity float64
}

// Table renders the merged rows with the report's leading columns. Rows of
// non-date plan columns show their label in the Date column.
func (p *PlanVsActuals) Table() *table.Table {
	t := table.New(normalization.ColDate, normalization.ColScheduleNo, normalization.ColQuantity,
		normalization.ColModuleLabel, normalization.ColActuals)
	for _, r := range p.Rows {
		module := table.Null()
		if r.Module != "" {
			module = table.String(r.Module)
		}
		date := table.Date(r.Date)
		if r.Label != "" {
			date = table.String(r.Label)
		}
		t.MustAddRow(date, table.String(r.Schedule), table.Number(r.Quantity),
			module, table.Number(r.Actuals))
	}
	return t
}
