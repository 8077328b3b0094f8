// Package importer decodes uploaded shop-floor exports into raw tables.
//
// The format is sniffed from the content rather than trusted from the file name:
// ERP systems routinely save HTML tables or CSV with an ".xls" extension.
package importer

import (
	"bytes"
	"fmt"
	"strings"

	"planact/quality"
	"planact/table"
)

// Format is a detected input file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
)

// htmlSniffLen bounds how far into the file we look for a <table> tag.
const htmlSniffLen = 64 << 10

// DetectFormat guesses the format of data.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS
	}
	head := data
	if len(head) > htmlSniffLen {
		head = head[:htmlSniffLen]
	}
	head = bytes.TrimPrefix(head, utf8BOM)
	head = bytes.TrimSpace(head)
	if len(head) > 0 && head[0] == '<' {
		lower := bytes.ToLower(head)
		if bytes.Contains(lower, []byte("<table")) {
			return FormatHTML
		}
	}
	return FormatCSV
}

// Read decodes one uploaded file. source names the input role in errors.
func Read(source string, data []byte) (*table.Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &quality.ValidationError{Source: source, Reason: "file is empty"}
	}
	switch DetectFormat(data) {
	case FormatXLSX:
		return ReadExcel(source, data)
	case FormatXLS:
		return nil, &quality.ValidationError{
			Source: source,
			Reason: "legacy binary .xls workbooks are not supported, save the file as .xlsx",
		}
	case FormatHTML:
		return ReadHTMLTable(source, data)
	default:
		return ReadCSV(source, data)
	}
}

// buildTable turns a header row and data rows into a table.
// Blank headers become "Unnamed: <index>" and repeated headers get ".1", ".2"
// suffixes, so every column stays addressable by name.
func buildTable(header []table.Value, rows [][]table.Value) *table.Table {
	width := len(header)
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		var name string
		if i < len(header) {
			name = strings.TrimSpace(header[i].Text())
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[name]; dup {
			base := name
			for n := seen[base] + 1; ; n++ {
				name = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[name]; !taken {
					seen[base] = n
					break
				}
			}
		}
		seen[name] = 0
		names[i] = name
	}

	t := table.New(names...)
	for _, r := range rows {
		if isEmptyRow(r) {
			continue
		}
		vals := make([]table.Value, width)
		copy(vals, r)
		t.MustAddRow(vals...)
	}
	return t
}

// isEmptyRow reports whether every cell is blank.
func isEmptyRow(row []table.Value) bool {
	for _, cell := range row {
		if !cell.IsBlank() {
			return false
		}
	}
	return true
}

func textCell(s string) table.Value {
	if s == "" {
		return table.Null()
	}
	return table.String(s)
}
