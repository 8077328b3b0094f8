package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"planact/internal/testhelpers"
	"planact/pipeline"
	"planact/table"
)

func TestWriteXLSX_RoundTrip(t *testing.T) {
	day := time.Date(2024, 9, 19, 0, 0, 0, 0, time.UTC)
	src := table.New("Date", "Schedule No", "Quantity", "Module_Upd", "Quantity_2024-09-19")
	src.MustAddRow(table.Date(day), table.String("105"), table.Number(50), table.String("BAI III Team 03"), table.Number(50))
	src.MustAddRow(table.Date(day.AddDate(0, 0, 1)), table.String("106"), table.Number(12.5), table.Null(), table.Number(0))

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, src, Options{SheetName: "Plan vs Actuals", ColumnWidth: 18}))

	got, err := ReadXLSX(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, src.Columns(), got.Columns())
	require.Equal(t, src.Len(), got.Len())
	for i := 0; i < src.Len(); i++ {
		for _, col := range src.Columns() {
			assert.Equal(t, src.Value(i, col).Text(), got.Value(i, col).Text(), "row %d column %q", i, col)
		}
	}
	assert.Equal(t, table.KindDate, got.Value(0, "Date").Kind())
	assert.Equal(t, table.KindString, got.Value(0, "Schedule No").Kind())
	assert.True(t, got.Value(1, "Module_Upd").IsNull())
}

func TestWriteXLSX_FinalReportRoundTrip(t *testing.T) {
	files := testhelpers.SampleInputs(t)
	in := pipeline.Inputs{}
	in.Add(pipeline.RoleShopfloor, "sfcs.csv", files.Shopfloor)
	in.Add(pipeline.RoleOrderBook, "order_book.xlsx", files.OrderBook)
	in.Add(pipeline.RoleProductMapping, "mapping.xlsx", files.ProductMapping)
	in.Add(pipeline.RoleLoadingPlan, "loading_plan.xlsx", files.LoadingPlan)
	in.Add(pipeline.RoleSignoff, "signoff.xlsx", files.Signoff)

	res, err := pipeline.New(pipeline.Options{}).Run(context.Background(), in)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, res.Final, Options{}))
	got, err := ReadXLSX(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, res.Final.Columns(), got.Columns())
	require.Equal(t, res.Final.Len(), got.Len())
	for i := 0; i < res.Final.Len(); i++ {
		for _, col := range res.Final.Columns() {
			want := res.Final.Value(i, col)
			if want.IsNull() {
				assert.True(t, got.Value(i, col).IsBlank(), "row %d column %q", i, col)
				continue
			}
			assert.Equal(t, want.Text(), got.Value(i, col).Text(), "row %d column %q", i, col)
		}
	}
}

func TestWriteXLSX_HeaderStyle(t *testing.T) {
	src := table.New("Schedule No")
	src.MustAddRow(table.String("105"))

	styleOf := func(opts Options) int {
		var buf bytes.Buffer
		require.NoError(t, WriteXLSX(&buf, src, opts))
		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer f.Close()
		id, err := f.GetCellStyle(DefaultSheetName, "A1")
		require.NoError(t, err)
		return id
	}

	assert.Zero(t, styleOf(Options{}))
	assert.NotZero(t, styleOf(Options{BoldHeader: true}))
}

func TestWriteXLSX_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, table.New("Schedule No", "Actuals"), Options{}))

	got, err := ReadXLSX(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Schedule No", "Actuals"}, got.Columns())
	assert.Equal(t, 0, got.Len())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "uq_plan_vs_actuals.xlsx", FileName("", ""))
	assert.Equal(t, "uq_plan_vs_actuals_crosstab.xlsx", FileName(DefaultFileName, "crosstab"))
	assert.Equal(t, "weekly_signoff.xlsx", FileName("weekly.xlsx", "signoff"))
}
