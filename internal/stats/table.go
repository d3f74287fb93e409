// Package stats reports on the logged round history.
package stats

import (
	"strings"
	"unicode/utf8"
)

// renderTable lays out the summary rows under their headers. The first
// column holds the level name and is left-aligned; every other column
// holds a number and is right-aligned.
func renderTable(headers []string, rows [][]string) []string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	for _, row := range append([][]string{headers}, rows...) {
		var b strings.Builder
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			pad := strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
			if i == 0 {
				b.WriteString(cell)
				b.WriteString(pad)
			} else {
				b.WriteString(pad)
				b.WriteString(cell)
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}
