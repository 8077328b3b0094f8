package table

import "strings"

// FlattenHeader joins the levels of a multi-level column header with "_",
// skipping empty levels: ("Quantity", "2024-09-19") becomes "Quantity_2024-09-19".
func FlattenHeader(levels ...string) string {
	parts := levels[:0:0]
	for _, l := range levels {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, "_")
}
