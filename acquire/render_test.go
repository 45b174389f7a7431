package acquire

import (
	"strings"
	"testing"

	"github.com/poiesic/finsight/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() core.ExtractedTable {
	return core.ExtractedTable{
		Page:       2,
		TableIndex: 0,
		Headers:    []string{"Metric", "Q1 2025", "Q2 2025"},
		Rows: [][]string{
			{"Revenue", "10.2M", "12.1M"},
			{"Net Income", "1.4M", "2.0M"},
		},
	}
}

func TestRenderTable(t *testing.T) {
	t.Run("deterministic for identical input", func(t *testing.T) {
		assert.Equal(t, RenderTable(sampleTable()), RenderTable(sampleTable()))
	})

	t.Run("page indicator prefix", func(t *testing.T) {
		rendered := RenderTable(sampleTable())
		assert.True(t, strings.HasPrefix(rendered, "Financial Table (Page 2):\n"))
	})

	t.Run("one line per row plus header and prefix", func(t *testing.T) {
		rendered := RenderTable(sampleTable())
		lines := strings.Split(rendered, "\n")
		assert.Len(t, lines, 4) // indicator, header, 2 data rows
	})

	t.Run("columns right aligned on widest cell", func(t *testing.T) {
		rendered := RenderTable(sampleTable())
		lines := strings.Split(rendered, "\n")
		// "Net Income" is the widest first-column cell; "Revenue" gets padding.
		assert.Contains(t, lines[2], "   Revenue")
	})

	t.Run("ragged rows render their cells as-is", func(t *testing.T) {
		table := sampleTable()
		table.Rows = append(table.Rows, []string{"Note"})
		rendered := RenderTable(table)
		lines := strings.Split(rendered, "\n")
		assert.Equal(t, "Note", strings.TrimSpace(lines[4]))
	})
}

func TestRenderedTableHeaders(t *testing.T) {
	t.Run("round trip recovers headers verbatim", func(t *testing.T) {
		table := sampleTable()
		rendered := RenderTable(table)
		assert.Equal(t, table.Headers, RenderedTableHeaders(rendered))
	})

	t.Run("headers with internal single spaces survive", func(t *testing.T) {
		table := core.ExtractedTable{
			Page:    1,
			Headers: []string{"Fiscal Year", "Total Net Revenue", "Basic EPS"},
			Rows:    [][]string{{"2024", "391.0B", "6.11"}},
		}
		assert.Equal(t, table.Headers, RenderedTableHeaders(RenderTable(table)))
	})

	t.Run("headers narrower than their column survive padding", func(t *testing.T) {
		table := core.ExtractedTable{
			Page:    3,
			Headers: []string{"Y", "V"},
			Rows:    [][]string{{"2024", "1234567"}},
		}
		assert.Equal(t, []string{"Y", "V"}, RenderedTableHeaders(RenderTable(table)))
	})

	t.Run("nil for malformed input", func(t *testing.T) {
		assert.Nil(t, RenderedTableHeaders(""))
		assert.Nil(t, RenderedTableHeaders("just one line"))
	})
}

func TestRenderParseCleanedGridRoundTrip(t *testing.T) {
	// The extractor cleans cells before building tables; rendering that
	// cleaned form and re-parsing must recover the header list exactly.
	grid := cleanGrid([][]string{
		{"  Metric ", "Q1   2025", "Q2\t2025"},
		{"Revenue", "10.2M", "12.1M"},
	})
	require.True(t, core.UsableTable(grid))

	table := core.ExtractedTable{Page: 7, Headers: grid[0], Rows: grid[1:]}
	assert.Equal(t, []string{"Metric", "Q1 2025", "Q2 2025"},
		RenderedTableHeaders(RenderTable(table)))
}
