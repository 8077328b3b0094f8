package importer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"planact/quality"
	"planact/table"
)

// ReadExcel parses the first worksheet of an .xlsx workbook.
// Cells keep their stored type: numbers stay numeric, cells whose number format
// is a date become dates, text stays text even when it looks numeric.
func ReadExcel(source string, data []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open Excel file: %w", source, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, &quality.ValidationError{Source: source, Reason: "no sheets found in Excel file"}
	}

	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get rows: %w", source, err)
	}
	formatted, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get formatted rows: %w", source, err)
	}
	if len(raw) == 0 {
		return nil, &quality.ValidationError{Source: source, Reason: "sheet has no header row"}
	}

	x := &sheetReader{
		f:          f,
		sheet:      sheetName,
		dateStyles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		x.date1904 = *props.Date1904
	}

	cells := make([][]table.Value, len(raw))
	for r, row := range raw {
		var fmtRow []string
		if r < len(formatted) {
			fmtRow = formatted[r]
		}
		vals := make([]table.Value, len(row))
		for c, v := range row {
			shown := v
			if c < len(fmtRow) {
				shown = fmtRow[c]
			}
			vals[c] = x.cell(c+1, r+1, v, shown)
		}
		cells[r] = vals
	}
	return buildTable(cells[0], cells[1:]), nil
}

// sheetReader resolves cell types for one worksheet.
type sheetReader struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func (x *sheetReader) cell(col, row int, raw, shown string) table.Value {
	if raw == "" {
		return table.Null()
	}
	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return table.String(raw)
	}

	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return table.Number(num)
	}
	typ, err := x.f.GetCellType(x.sheet, name)
	if err == nil {
		switch typ {
		case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
			return table.String(raw)
		case excelize.CellTypeBool:
			return table.String(shown)
		}
	}

	if shown != raw && x.isDateCell(name, shown) {
		if t, err := excelize.ExcelDateToTime(num, x.date1904); err == nil {
			return table.Date(t)
		}
	}
	return table.Number(num)
}

// isDateCell checks the number format of a numeric cell, falling back to the
// displayed text when the style cannot be resolved.
func (x *sheetReader) isDateCell(name, shown string) bool {
	idx, err := x.f.GetCellStyle(x.sheet, name)
	if err == nil && idx > 0 {
		if isDate, ok := x.dateStyles[idx]; ok {
			return isDate
		}
		if style, err := x.f.GetStyle(idx); err == nil && style != nil {
			isDate := isDateNumFmt(style.NumFmt)
			if style.CustomNumFmt != nil {
				isDate = isDateFormatCode(*style.CustomNumFmt)
			}
			x.dateStyles[idx] = isDate
			return isDate
		}
	}
	return looksLikeDate(shown)
}

// isDateNumFmt reports whether a built-in number format id renders a date.
func isDateNumFmt(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 50 && id <= 58)
}

// isDateFormatCode reports whether a custom format code contains day or year tokens.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range code {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	s := strings.ToLower(b.String())
	return strings.ContainsAny(s, "yd")
}

var shownDateLayouts = []string{
	"2006-01-02",
	"1/2/06",
	"1/2/2006",
	"01-02-06",
	"2-Jan-06",
	"02-Jan-2006",
	"2006-01-02 15:04:05",
	"1/2/06 15:04",
}

func looksLikeDate(shown string) bool {
	shown = strings.TrimSpace(shown)
	for _, layout := range shownDateLayouts {
		if _, err := time.Parse(layout, shown); err == nil {
			return true
		}
	}
	return false
}
