// Package report exports tables as single-sheet spreadsheets.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"planact/importer"
	"planact/table"
)

// DefaultFileName is the download name of the final report.
const DefaultFileName = "uq_plan_vs_actuals.xlsx"

// DefaultSheetName is the sheet written when Options.SheetName is empty.
const DefaultSheetName = "Sheet1"

// Options controls the written workbook.
type Options struct {
	SheetName string
	// ColumnWidth is applied to every column; zero keeps the default width.
	ColumnWidth float64
	// BoldHeader styles the header row; the default sheet is unformatted.
	BoldHeader bool
}

const dateFormat = "yyyy-mm-dd"

// WriteXLSX writes t as the only sheet of a workbook: one plain header row
// with the column names, no index column. Null cells stay empty; dates get a
// calendar-date number format and no other styling is applied.
func WriteXLSX(w io.Writer, t *table.Table, opts Options) error {
	sheetName := opts.SheetName
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if current := f.GetSheetName(0); current != sheetName {
		if err := f.SetSheetName(current, sheetName); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	headerStyle := 0
	if opts.BoldHeader {
		id, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		headerStyle = id
	}
	format := dateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	for i, header := range t.Columns() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header %q: %w", header, err)
		}
		if headerStyle != 0 {
			if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
				return fmt.Errorf("failed to style header: %w", err)
			}
		}
	}

	for r := 0; r < t.Len(); r++ {
		for c, v := range t.Row(r).Values() {
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v.Interface()); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
			if v.Kind() == table.KindDate {
				if err := f.SetCellStyle(sheetName, cell, cell, dateStyle); err != nil {
					return fmt.Errorf("failed to style cell %s: %w", cell, err)
				}
			}
		}
	}

	if opts.ColumnWidth > 0 && len(t.Columns()) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Columns()))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, "A", last, opts.ColumnWidth); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ReadXLSX reads a workbook written by WriteXLSX back into a table.
func ReadXLSX(data []byte) (*table.Table, error) {
	return importer.ReadExcel("report", data)
}

// FileName derives the name of a side export from the main report name:
// FileName("uq_plan_vs_actuals.xlsx", "crosstab") is "uq_plan_vs_actuals_crosstab.xlsx".
// An empty suffix returns base unchanged.
func FileName(base, suffix string) string {
	if base == "" {
		base = DefaultFileName
	}
	if suffix == "" {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + suffix + ext
}
