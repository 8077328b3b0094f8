package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plan(t *testing.T) *Table {
	t.Helper()
	tb := New("Schedule No", "Date", "Quantity")
	require.NoError(t, tb.AddRow(String("105"), String("2024-09-19"), Number(50)))
	require.NoError(t, tb.AddRow(String("106"), String("2024-09-19"), Number(20)))
	return tb
}

func actuals(t *testing.T) *Table {
	t.Helper()
	tb := New("Schedule No", "Date", "Module", "Quantity")
	require.NoError(t, tb.AddRow(String("105"), String("2024-09-19"), String("M3"), Number(40)))
	require.NoError(t, tb.AddRow(String("105"), String("2024-09-19"), String("M4"), Number(10)))
	require.NoError(t, tb.AddRow(String("107"), String("2024-09-20"), String("M1"), Number(5)))
	return tb
}

func TestLeftJoinFanOutAndSuffixes(t *testing.T) {
	out, err := Join(plan(t), actuals(t), JoinSpec{
		Kind:    LeftJoin,
		LeftOn:  []string{"Schedule No", "Date"},
		RightOn: []string{"Schedule No", "Date"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Schedule No", "Date", "Quantity_x", "Module", "Quantity_y"}, out.Columns())
	require.Equal(t, 3, out.Len())
	assert.Equal(t, "M3", out.Value(0, "Module").Text())
	assert.Equal(t, "M4", out.Value(1, "Module").Text())
	assert.Equal(t, "50", out.Value(1, "Quantity_x").Text())
	assert.Equal(t, "106", out.Value(2, "Schedule No").Text())
	assert.True(t, out.Value(2, "Module").IsNull())
}

func TestOuterJoinKeepsUnmatchedRight(t *testing.T) {
	out, err := Join(plan(t), actuals(t), JoinSpec{
		Kind:     OuterJoin,
		LeftOn:   []string{"Schedule No", "Date"},
		RightOn:  []string{"Schedule No", "Date"},
		Suffixes: [2]string{"", "_actual"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Schedule No", "Date", "Quantity", "Module", "Quantity_actual"}, out.Columns())
	require.Equal(t, 4, out.Len())
	last := out.Row(3)
	assert.Equal(t, "107", last.Get("Schedule No").Text())
	assert.Equal(t, "2024-09-20", last.Get("Date").Text())
	assert.True(t, last.Get("Quantity").IsNull())
	assert.Equal(t, "5", last.Get("Quantity_actual").Text())
}

func TestJoinDifferentKeyNamesAndKeyFunc(t *testing.T) {
	left := New("Sample Code", "VPO")
	left.MustAddRow(String(" abc123 "), String("VPO-1"))
	left.MustAddRow(String("zzz999"), String("VPO-2"))

	right := New("Style", "Product")
	right.MustAddRow(String("ABC123"), String("Tee"))

	out, err := Join(left, right, JoinSpec{
		Kind:    LeftJoin,
		LeftOn:  []string{"Sample Code"},
		RightOn: []string{"Style"},
		Key: func(_ string, v Value) string {
			return strings.ToUpper(strings.TrimSpace(v.Text()))
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sample Code", "VPO", "Style", "Product"}, out.Columns())
	assert.Equal(t, "Tee", out.Value(0, "Product").Text())
	assert.True(t, out.Value(1, "Style").IsNull())
}

func TestJoinErrors(t *testing.T) {
	_, err := Join(plan(t), actuals(t), JoinSpec{LeftOn: []string{"Schedule No"}})
	assert.Error(t, err)

	_, err = Join(plan(t), actuals(t), JoinSpec{LeftOn: []string{"VPO"}, RightOn: []string{"Schedule No"}})
	var mce *MissingColumnsError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, "left", mce.Side)
	assert.Equal(t, []string{"VPO"}, mce.Columns)
}
