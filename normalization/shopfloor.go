package normalization

import (
	"fmt"
	"sort"
	"time"

	"planact/quality"
	"planact/table"
)

// ShopfloorRecord is the good sewing output of one module for one schedule on one day.
type ShopfloorRecord struct {
	Schedule string
	Date     time.Time
	Module   string // e.g. "BAI III Team 03"
	Actuals  float64
}

// Shopfloor is the normalized shop-floor control system export.
type Shopfloor struct {
	Records  []ShopfloorRecord
	Warnings quality.Warnings
}

type shopfloorKey struct {
	schedule string
	date     time.Time
	module   string
}

// NormalizeShopfloor parses dates, labels modules and sums good output per
// (schedule, date, module). Rows with an unparseable date or no schedule are
// dropped and counted; a module that is not a whole number aborts the stage.
func NormalizeShopfloor(raw *table.Table, opts Options) (*Shopfloor, error) {
	if err := quality.RequireColumns(SourceShopfloor, raw, ColSchedule, ColDate, ColModule, ColSewingGood); err != nil {
		return nil, err
	}
	log := opts.logger().With("stage", SourceShopfloor)
	out := &Shopfloor{}

	sums := make(map[shopfloorKey]float64)
	var order []shopfloorKey
	badDates, noSchedule, badQty := 0, 0, 0
	dateOrder := InferDateOrder(raw.Column(ColDate))

	for i := 0; i < raw.Len(); i++ {
		row := raw.Row(i)

		date, err := ParseDateOrder(row.Get(ColDate), dateOrder)
		if err != nil {
			badDates++
			log.Warn("dropping row with unparseable date", "row", i+1, "value", row.Get(ColDate).Text())
			continue
		}

		module, err := ParseInteger(row.Get(ColModule))
		if err != nil {
			return nil, &quality.ParseError{
				Source: SourceShopfloor,
				Column: ColModule,
				Value:  row.Get(ColModule).Text(),
				Row:    i + 1,
				Err:    err,
			}
		}

		schedule, ok := NormalizeSchedule(row.Get(ColSchedule))
		if !ok {
			noSchedule++
			continue
		}

		var qty float64
		if cell := row.Get(ColSewingGood); !cell.IsBlank() {
			qty, err = ParseNumber(cell)
			if err != nil {
				badQty++
				log.Warn("dropping row with non-numeric output", "row", i+1, "value", cell.Text())
				continue
			}
		}

		k := shopfloorKey{schedule: schedule, date: date, module: ModuleLabel(opts.TeamLabel, module)}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += qty
	}

	out.Warnings.Add(SourceShopfloor, quality.CodeDroppedRows, badDates,
		"%d shop-floor rows dropped because the date could not be parsed", badDates)
	out.Warnings.Add(SourceShopfloor, quality.CodeDroppedRows, noSchedule,
		"%d shop-floor rows dropped because the schedule is blank", noSchedule)
	out.Warnings.Add(SourceShopfloor, quality.CodeDroppedRows, badQty,
		"%d shop-floor rows dropped because %s is not a number", badQty, ColSewingGood)

	out.Records = make([]ShopfloorRecord, 0, len(order))
	for _, k := range order {
		out.Records = append(out.Records, ShopfloorRecord{
			Schedule: k.schedule,
			Date:     k.date,
			Module:   k.module,
			Actuals:  sums[k],
		})
	}
	sort.SliceStable(out.Records, func(i, j int) bool {
		a, b := out.Records[i], out.Records[j]
		if c := CompareSchedules(a.Schedule, b.Schedule); c != 0 {
			return c < 0
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Module < b.Module
	})

	log.Info("shop-floor export normalized",
		"input_rows", raw.Len(), "records", len(out.Records), "total_actuals", out.TotalActuals())
	return out, nil
}

// ModuleLabel formats a module number as the team label used on the floor.
func ModuleLabel(team string, module int64) string {
	return fmt.Sprintf("%s %02d", team, module)
}

// Table renders the records with the shop-floor report columns.
func (s *Shopfloor) Table() *table.Table {
	t := table.New(ColSchedule, ColDate, ColModuleLabel, ColActuals)
	for _, r := range s.Records {
		t.MustAddRow(table.String(r.Schedule), table.Date(r.Date), table.String(r.Module), table.Number(r.Actuals))
	}
	return t
}

// TotalActuals sums good output over all records.
func (s *Shopfloor) TotalActuals() float64 {
	var total float64
	for _, r := range s.Records {
		total += r.Actuals
	}
	return total
}
