package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"planact/quality"
	"planact/table"
)

// ReadCSV parses delimited text. All cells are kept as text; the normalization
// stages coerce them per column.
func ReadCSV(source string, data []byte) (*table.Table, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to decode text: %w", source, err)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &quality.ValidationError{Source: source, Reason: "file has no header row"}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read CSV header: %w", source, err)
	}

	headerCells := make([]table.Value, len(header))
	for i, h := range header {
		headerCells[i] = textCell(h)
	}

	var rows [][]table.Value
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read CSV row %d: %w", source, len(rows)+2, err)
		}
		row := make([]table.Value, len(rec))
		for i, cell := range rec {
			row[i] = textCell(cell)
		}
		rows = append(rows, row)
	}
	return buildTable(headerCells, rows), nil
}

// decodeText converts data to UTF-8. A byte order mark selects UTF-8 or UTF-16;
// text that is not valid UTF-8 is treated as Windows-1252, the default code page
// of the shop-floor terminals.
func decodeText(data []byte) ([]byte, error) {
	if hasBOM(data) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		return out, err
	}
	if utf8.Valid(data) {
		return data, nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	return out, err
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, utf8BOM) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}

// sniffDelimiter picks the most frequent of ',', ';' and tab in the first line.
func sniffDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
