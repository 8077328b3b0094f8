// Package testhelpers builds in-memory input files for tests.
package testhelpers

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/xuri/excelize/v2"

	"planact/table"
)

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TextTable builds a table of text cells; empty strings become null.
func TextTable(tb testing.TB, header []string, rows ...[]string) *table.Table {
	tb.Helper()
	t := table.New(header...)
	for _, r := range rows {
		vals := make([]table.Value, len(r))
		for i, s := range r {
			if s != "" {
				vals[i] = table.String(s)
			}
		}
		if err := t.AddRow(vals...); err != nil {
			tb.Fatalf("TextTable: %v", err)
		}
	}
	return t
}

// CSV renders rows as comma-separated text.
func CSV(tb testing.TB, header []string, rows ...[]string) []byte {
	tb.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		tb.Fatalf("CSV: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tb.Fatalf("CSV: %v", err)
	}
	return buf.Bytes()
}

// XLSX renders rows into the first sheet of a workbook. Cells are written
// with their Go type, so time.Time values get a date number format and nil
// leaves the cell empty.
func XLSX(tb testing.TB, header []interface{}, rows ...[]interface{}) []byte {
	tb.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	all := append([][]interface{}{header}, rows...)
	for i, r := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			tb.Fatalf("XLSX: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			tb.Fatalf("XLSX: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		tb.Fatalf("XLSX: %v", err)
	}
	return buf.Bytes()
}

// Inputs holds the five files of one reporting run.
type Inputs struct {
	Shopfloor      []byte
	OrderBook      []byte
	ProductMapping []byte
	LoadingPlan    []byte
	Signoff        []byte
}

// SampleStyle is the customer style code used by the sample inputs; its
// sample code is SampleCode.
const (
	SampleStyle = "UQ4567891234"
	SampleCode  = "456789"
)

// SampleInputs returns a small consistent set of files covering two
// schedules over two days:
//
//   - shop floor: schedule "105 " and 105 on 2024-09-19 module 3 (40+10),
//     105 on 2024-09-20 module 4 (25), 106 on 2024-09-19 module 1 (30) and
//     one row with an invalid date
//   - loading plan: 105 plans 50 and 30, 106 plans 20 and nothing, plus a
//     "Total" column
//   - sign-off: 105 on 2024-09-19 (48+2) and 108 on 2024-09-21 which has no
//     shop-floor output
func SampleInputs(tb testing.TB) Inputs {
	tb.Helper()
	return Inputs{
		Shopfloor: CSV(tb,
			[]string{"Schedule", "Date", "Module", "Sewingout[130]-Good"},
			[]string{"105 ", "2024-09-19", "3", "40"},
			[]string{"105", "2024-09-19", "3", "10"},
			[]string{"105", "2024-09-20", "4", "25"},
			[]string{"106", "2024-09-19", "1", "30"},
			[]string{"107", "invalid-date", "2", "99"},
		),
		OrderBook: XLSX(tb,
			[]interface{}{
				"Cust Style No", "Cum Cut Qty", "CO Qty", "Cum SewOut Qty", "Cum Sew Out Rej Qty",
				"Cum Sew In Qty", "Delivered Qty", "Schedule No", "VPO No", "Group Tech Class", "PED",
			},
			[]interface{}{SampleStyle, 120, 100, 80, 5, 90, 60, 105, "VPO-1", "TC-A", Day(2024, time.October, 1)},
			[]interface{}{SampleStyle, 50, 0, 0, 0, 0, 0, 106, "VPO-2", "TC-A", Day(2024, time.October, 5)},
		),
		ProductMapping: XLSX(tb,
			[]interface{}{"Style", "Master Item", "Sub Item", "IND Only", "Season"},
			[]interface{}{SampleCode, "Crew Neck Tee", "Short Sleeve", "Y", "FW24"},
		),
		LoadingPlan: XLSX(tb,
			LoadingPlanHeader(Day(2024, time.September, 19), Day(2024, time.September, 20), "Total"),
			LoadingPlanRow(105, 50, 30, 80),
			LoadingPlanRow(106, 20, nil, 20),
		),
		Signoff: XLSX(tb,
			[]interface{}{"Schedule No", "Date", "Sign Off Qty", "Remarks"},
			[]interface{}{105, Day(2024, time.September, 19), 48, "ok"},
			[]interface{}{105, Day(2024, time.September, 19), 2, nil},
			[]interface{}{108, Day(2024, time.September, 21), 10, "late"},
		),
	}
}

// loadingPlanFixed are the fifteen descriptive columns of the loading plan.
var loadingPlanFixed = []interface{}{
	"Schedule No", "Buyer", "VPO", "Style", "Colour", "Size Range", "Order Qty", "Line",
	"SMV", "Target", "Start", "Finish", "Remarks", "Priority", "Status",
}

// LoadingPlanHeader returns the fixed columns, one blank spacer column and
// the given date headers.
func LoadingPlanHeader(dates ...interface{}) []interface{} {
	h := append([]interface{}(nil), loadingPlanFixed...)
	h = append(h, nil)
	return append(h, dates...)
}

// LoadingPlanRow returns a plan row for schedule with the given daily quantities.
func LoadingPlanRow(schedule interface{}, quantities ...interface{}) []interface{} {
	r := make([]interface{}, len(loadingPlanFixed)+1)
	r[0] = schedule
	r[1] = "Uniqlo"
	r[7] = "L1"
	return append(r, quantities...)
}

// RandomShopfloorRows generates shop-floor rows over the given schedules and days.
func RandomShopfloorRows(faker *gofakeit.Faker, n int, schedules []string, days []time.Time) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{
			schedules[faker.IntRange(0, len(schedules)-1)],
			days[faker.IntRange(0, len(days)-1)].Format("2006-01-02"),
			faker.Numerify("#"),
			faker.Numerify("##"),
		}
	}
	return rows
}
