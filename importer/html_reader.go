package importer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"planact/quality"
	"planact/table"
)

// ReadHTMLTable parses the first <table> of an HTML document. Several ERP
// systems export reports this way and name the file ".xls".
func ReadHTMLTable(source string, data []byte) (*table.Table, error) {
	r, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to detect HTML charset: %w", source, err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse HTML: %w", source, err)
	}

	tbl := doc.Find("table").First()
	if tbl.Length() == 0 {
		return nil, &quality.ValidationError{Source: source, Reason: "no table found in HTML export"}
	}

	var rows [][]table.Value
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []table.Value
		tr.Find("th, td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, textCell(strings.TrimSpace(td.Text())))
		})
		rows = append(rows, row)
	})
	if len(rows) == 0 {
		return nil, &quality.ValidationError{Source: source, Reason: "HTML table has no rows"}
	}
	return buildTable(rows[0], rows[1:]), nil
}
