package normalization

import (
	"fmt"
	"sort"
	"strings"

	"planact/quality"
	"planact/table"
)

// PlanRecord is the planned loading quantity of one schedule on one day.
// Date holds the YYYY-MM-DD label of the source column, or the raw header
// when that header is not a date.
type PlanRecord struct {
	Date     string
	Schedule string
	Quantity float64
}

// LoadingPlan is the loading plan reshaped from one column per day to one
// row per (date, schedule).
type LoadingPlan struct {
	Records     []PlanRecord
	DateColumns []string
	Warnings    quality.Warnings
}

type planKey struct {
	date, schedule string
}

// ReshapeLoadingPlan unpivots the date columns that follow the fixed
// descriptive columns and sums quantities per (date, schedule). Blank and
// non-numeric quantities count as zero. A schedule that is not a number
// after reshaping aborts the stage.
func ReshapeLoadingPlan(raw *table.Table, opts Options) (*LoadingPlan, error) {
	if err := quality.RequireColumns(SourceLoadingPlan, raw, ColScheduleNo); err != nil {
		return nil, err
	}
	log := opts.logger().With("stage", SourceLoadingPlan)

	t := raw.Drop(fmt.Sprintf("Unnamed: %d", opts.PlanFixedColumns))
	cols := t.Columns()
	if len(cols) < opts.PlanFixedColumns {
		return nil, &quality.ValidationError{
			Source: SourceLoadingPlan,
			Reason: fmt.Sprintf("expected at least %d descriptive columns before the date columns, found %d",
				opts.PlanFixedColumns, len(cols)),
		}
	}

	out := &LoadingPlan{}
	var dateCols []string
	var headers []table.Value
	for _, c := range cols[opts.PlanFixedColumns:] {
		if strings.Contains(c, "Unnamed") {
			continue
		}
		dateCols = append(dateCols, c)
		headers = append(headers, table.String(c))
	}
	headerOrder := InferDateOrder(headers)
	for _, c := range dateCols {
		out.DateColumns = append(out.DateColumns, DateLabelOrder(c, headerOrder))
	}

	sums := make(map[planKey]float64)
	var order []planKey
	blankSchedules := 0
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		cell := row.Get(ColScheduleNo)
		schedule, ok := NormalizeSchedule(cell)
		if !ok {
			blankSchedules++
			continue
		}
		schedule, err := IntegerSchedule(schedule)
		if err != nil {
			return nil, &quality.ParseError{
				Source: SourceLoadingPlan,
				Column: ColScheduleNo,
				Value:  strings.TrimSpace(cell.Text()),
				Row:    i + 1,
				Err:    err,
			}
		}
		for j, c := range dateCols {
			k := planKey{date: out.DateColumns[j], schedule: schedule}
			if _, seen := sums[k]; !seen {
				order = append(order, k)
				sums[k] = 0
			}
			if q, err := ParseNumber(row.Get(c)); err == nil {
				sums[k] += q
			}
		}
	}
	out.Warnings.Add(SourceLoadingPlan, quality.CodeDroppedRows, blankSchedules,
		"%d loading-plan rows dropped because %s is blank", blankSchedules, ColScheduleNo)

	out.Records = make([]PlanRecord, 0, len(order))
	for _, k := range order {
		out.Records = append(out.Records, PlanRecord{Date: k.date, Schedule: k.schedule, Quantity: sums[k]})
	}
	sort.SliceStable(out.Records, func(i, j int) bool {
		a, b := out.Records[i], out.Records[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return CompareSchedules(a.Schedule, b.Schedule) < 0
	})

	log.Info("loading plan reshaped", "input_rows", raw.Len(), "date_columns", len(dateCols), "records", len(out.Records))
	return out, nil
}

// Table renders the long-form plan.
func (p *LoadingPlan) Table() *table.Table {
	t := table.New(ColDate, ColScheduleNo, ColQuantity)
	for _, r := range p.Records {
		t.MustAddRow(table.String(r.Date), table.String(r.Schedule), table.Number(r.Quantity))
	}
	return t
}
