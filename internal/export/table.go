package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/couchcryptid/realestate-search-service/internal/domain"
	"github.com/mattn/go-runewidth"
)

// MaxCellWidth caps the display width of a table cell.
const MaxCellWidth = 40

// WriteTable renders the properties as a pipe-delimited table whose columns
// are padded to their display width, so wide (CJK, emoji) text lines up.
func WriteTable(w io.Writer, props []domain.Property, cols []string) error {
	rows := make([][]string, 0, len(props)+1)
	rows = append(rows, cols)
	for _, p := range props {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = runewidth.Truncate(cellText(cellValue(p, c)), MaxCellWidth, "…")
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(cols))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	// Ensure min width for the "---" separator.
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}

	bw := bufio.NewWriter(w)
	for i, row := range rows {
		writeTableLine(bw, row, widths)
		if i == 0 {
			sep := make([]string, len(cols))
			for j := range sep {
				sep[j] = strings.Repeat("-", widths[j])
			}
			writeTableLine(bw, sep, widths)
		}
	}
	return bw.Flush()
}

func writeTableLine(bw *bufio.Writer, cells []string, widths []int) {
	bw.WriteString("|")
	for i, cell := range cells {
		bw.WriteString(" ")
		bw.WriteString(runewidth.FillRight(cell, widths[i]))
		bw.WriteString(" |")
	}
	bw.WriteString("\n")
}
