package acquire

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/finsight/core"
)

// tableGutter separates rendered columns. Cell cleaning guarantees no cell
// contains a run of two or more spaces, so the gutter is unambiguous when
// re-parsing.
const tableGutter = "  "

var gutterSplit = regexp.MustCompile(`\s{2,}`)

// RenderTable renders an extracted table into deterministic plain text: a
// page indicator line followed by right-aligned columns. Identical table
// input always renders to identical text, and the header line re-parses to
// the original header list via RenderedTableHeaders.
//
// Cells must be whitespace-normalized and header cells must be non-empty,
// as TableExtractor produces them. An empty header cell renders as pure
// padding and cannot be recovered by RenderedTableHeaders.
func RenderTable(table core.ExtractedTable) string {
	widths := columnWidths(table)

	var b strings.Builder
	b.WriteString("Financial Table (Page ")
	b.WriteString(strconv.Itoa(table.Page))
	b.WriteString("):\n")

	writeRow(&b, table.Headers, widths)
	for _, row := range table.Rows {
		b.WriteByte('\n')
		writeRow(&b, row, widths)
	}

	return b.String()
}

// RenderedTableHeaders recovers the header list from a rendered table.
// Used for round-trip verification and for re-deriving headers from stored
// fragment text.
func RenderedTableHeaders(rendered string) []string {
	lines := strings.SplitN(rendered, "\n", 3)
	if len(lines) < 2 {
		return nil
	}
	header := strings.TrimSpace(lines[1])
	if header == "" {
		return nil
	}
	return gutterSplit.Split(header, -1)
}

// columnWidths computes the rune width of each column over the header and
// all rows, tolerating ragged rows.
func columnWidths(table core.ExtractedTable) []int {
	cols := len(table.Headers)
	for _, row := range table.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(table.Headers)
	for _, row := range table.Rows {
		measure(row)
	}
	return widths
}

// writeRow writes one right-aligned row. Ragged rows render the cells they
// have; missing trailing cells are simply absent.
func writeRow(b *strings.Builder, row []string, widths []int) {
	for i, cell := range row {
		if i > 0 {
			b.WriteString(tableGutter)
		}
		if pad := widths[i] - utf8.RuneCountInString(cell); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(cell)
	}
}
