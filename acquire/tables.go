package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/poiesic/finsight/core"
)

// defaultCellGap is the horizontal whitespace, in PDF points, that separates
// two cells on the same text row. Gaps smaller than wordGap are treated as
// intra-word breaks from the PDF's text runs.
const (
	defaultCellGap = 10.0
	wordGap        = 1.0
)

// TableExtractor scans PDF pages for tabular regions and extracts their raw
// cell grids.
type TableExtractor struct {
	cellGap float64
	logger  *slog.Logger
}

// TableExtractorOption configures a TableExtractor.
type TableExtractorOption func(*TableExtractor)

// WithCellGap overrides the cell-separation threshold in PDF points.
func WithCellGap(gap float64) TableExtractorOption {
	return func(e *TableExtractor) {
		if gap > 0 {
			e.cellGap = gap
		}
	}
}

// WithTableLogger sets a custom logger. Default is slog.Default().
func WithTableLogger(logger *slog.Logger) TableExtractorOption {
	return func(e *TableExtractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewTableExtractor creates a new table extractor.
func NewTableExtractor(opts ...TableExtractorOption) *TableExtractor {
	e := &TableExtractor{
		cellGap: defaultCellGap,
		logger:  slog.Default().With("component", "table-extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractionResult carries the accepted tables plus an audit trail of what
// extraction skipped, so callers can see reduced counts without anything
// being silently dropped.
type ExtractionResult struct {
	Tables  []core.ExtractedTable
	Skipped []core.SkippedTable
}

// ExtractTables scans every page of the PDF at path for tabular regions.
//
// Failures are isolated per page and per table: a page that cannot be
// parsed, or a detected region too thin to index, is recorded in Skipped
// and extraction continues. Only a whole-document open failure is fatal,
// surfacing as *core.AcquisitionError.
func (e *TableExtractor) ExtractTables(ctx context.Context, path string) (*ExtractionResult, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, core.NewAcquisitionError(path, err)
	}
	defer f.Close()

	result := &ExtractionResult{}
	total := reader.NumPage()
	for pageNum := 1; pageNum <= total; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.extractPage(reader, pageNum, result)
	}

	e.logger.Info("extracted tables", "path", path,
		"tables", len(result.Tables), "skipped", len(result.Skipped))
	return result, nil
}

// extractPage pulls every tabular region off one page. The pdf library can
// panic on malformed page content, so the page is guarded with a recover
// and skipped as a unit when that happens.
func (e *TableExtractor) extractPage(reader *pdf.Reader, pageNum int, result *ExtractionResult) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Warn("page parse panicked, skipping page", "page", pageNum, "err", rec)
			result.Skipped = append(result.Skipped, core.SkippedTable{
				Page:       pageNum,
				TableIndex: -1,
				Reason:     fmt.Sprintf("page parse: %v", rec),
			})
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		e.logger.Warn("row extraction failed, skipping page", "page", pageNum, "err", err)
		result.Skipped = append(result.Skipped, core.SkippedTable{
			Page:       pageNum,
			TableIndex: -1,
			Reason:     fmt.Sprintf("row extraction: %v", err),
		})
		return
	}

	for idx, grid := range gridsFromRows(rows, e.cellGap) {
		grid = cleanGrid(grid)
		if !core.UsableTable(grid) {
			e.logger.Debug("discarding thin table", "page", pageNum, "table", idx)
			result.Skipped = append(result.Skipped, core.SkippedTable{
				Page:       pageNum,
				TableIndex: idx,
				Reason:     "no data rows under a non-empty header",
			})
			continue
		}
		result.Tables = append(result.Tables, core.ExtractedTable{
			Page:       pageNum,
			TableIndex: idx,
			Headers:    grid[0],
			Rows:       grid[1:],
		})
	}
}

// gridsFromRows groups consecutive multi-cell text rows into candidate cell
// grids. A row that clusters into fewer than two cells ends the current
// region; regions are returned in page order.
func gridsFromRows(rows pdf.Rows, cellGap float64) [][][]string {
	var grids [][][]string
	var current [][]string

	flush := func() {
		if len(current) > 0 {
			grids = append(grids, current)
			current = nil
		}
	}

	for _, row := range rows {
		cells := cellsFromRow(row.Content, cellGap)
		if len(cells) < 2 {
			flush()
			continue
		}
		current = append(current, cells)
	}
	flush()

	return grids
}

// cellsFromRow clusters the positioned text runs of one row into cells.
// A horizontal gap wider than cellGap starts a new cell; a gap wider than
// wordGap but narrower than cellGap is a space inside the same cell.
func cellsFromRow(words []pdf.Text, cellGap float64) []string {
	var cells []string
	var cell strings.Builder
	prevEnd := 0.0

	for i, w := range words {
		if w.S == "" {
			continue
		}
		if i > 0 {
			gap := w.X - prevEnd
			switch {
			case gap > cellGap:
				cells = append(cells, cell.String())
				cell.Reset()
			case gap > wordGap:
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(w.S)
		prevEnd = w.X + w.W
	}
	if cell.Len() > 0 {
		cells = append(cells, cell.String())
	}

	return cells
}

// cleanGrid trims cells and collapses internal whitespace runs, matching
// the canonical form the table renderer round-trips on.
func cleanGrid(grid [][]string) [][]string {
	cleaned := make([][]string, len(grid))
	for i, row := range grid {
		cleaned[i] = make([]string, len(row))
		for j, cell := range row {
			cleaned[i][j] = strings.Join(strings.Fields(cell), " ")
		}
	}
	return cleaned
}
