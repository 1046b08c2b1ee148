package tabledetect

import (
	"sort"
	"strings"

	"github.com/coregx/gxpdf/internal/extractor"
	domaintable "github.com/coregx/gxpdf/internal/models/table"
)

// SpreadsheetExtractor assembles a Table from a set of cell rectangles
// (4.F): it derives row/column bands from the cells' edges, determines
// each cell's row/column span, and places text by geometric center.
type SpreadsheetExtractor struct {
	bandTolerance float64
}

// NewSpreadsheetExtractor creates a SpreadsheetExtractor with the default
// band-clustering tolerance.
func NewSpreadsheetExtractor() *SpreadsheetExtractor {
	return &SpreadsheetExtractor{bandTolerance: 2.0}
}

// WithBandTolerance sets the tolerance used when clustering cell edges into
// row/column bands.
func (se *SpreadsheetExtractor) WithBandTolerance(tol float64) *SpreadsheetExtractor {
	se.bandTolerance = tol
	return se
}

// Extract builds a Table from cell rectangles and the text elements that
// fall within the cells' overall bounding area.
func (se *SpreadsheetExtractor) Extract(cells []extractor.Rectangle, textElements []*extractor.TextElement) (*domaintable.Table, error) {
	if len(cells) == 0 {
		return domaintable.NewTable(1, 1)
	}

	colEdges := se.clusterBand(cells, true)
	rowEdges := se.clusterBand(cells, false)

	colCount := len(colEdges) - 1
	rowCount := len(rowEdges) - 1
	if colCount < 1 {
		colCount = 1
	}
	if rowCount < 1 {
		rowCount = 1
	}

	tbl, err := domaintable.NewTable(rowCount, colCount)
	if err != nil {
		return nil, err
	}

	cellExtractor := extractor.NewCellExtractor(textElements)

	for _, c := range cells {
		row := se.bandIndex(rowEdges, c.Top(), true)
		col := se.bandIndex(colEdges, c.Left(), false)
		rowEnd := se.bandIndex(rowEdges, c.Bottom(), true)
		colEnd := se.bandIndex(colEdges, c.Right(), false)

		rowSpan := rowEnd - row
		if rowSpan < 1 {
			rowSpan = 1
		}
		colSpan := colEnd - col
		if colSpan < 1 {
			colSpan = 1
		}
		if row < 0 || row >= rowCount || col < 0 || col >= colCount {
			continue
		}

		text := cellExtractor.ExtractCellContent(c)

		cell := domaintable.NewCellWithBounds(text, row, col, domaintable.Rectangle{
			X: c.Left(), Y: c.Bottom(), Width: c.Width, Height: c.Height,
		})
		if rowSpan > 1 {
			cell = cell.WithRowSpan(rowSpan)
		}
		if colSpan > 1 {
			cell = cell.WithColSpan(colSpan)
		}

		if err := tbl.SetCell(row, col, cell); err != nil {
			continue
		}
	}

	tbl.Method = "lattice"
	return tbl, nil
}

// clusterBand clusters cell left/right edges (vertical bands, byX=true) or
// top/bottom edges (horizontal bands) into a sorted, deduplicated list of
// band boundaries.
func (se *SpreadsheetExtractor) clusterBand(cells []extractor.Rectangle, byX bool) []float64 {
	var raw []float64
	for _, c := range cells {
		if byX {
			raw = append(raw, c.Left(), c.Right())
		} else {
			raw = append(raw, c.Bottom(), c.Top())
		}
	}
	sort.Float64s(raw)

	var bands []float64
	for _, v := range raw {
		if len(bands) == 0 || v-bands[len(bands)-1] > se.bandTolerance {
			bands = append(bands, v)
		}
	}
	return bands
}

// bandIndex returns the index of the band matching coord, walking top to
// bottom (isRow) or left to right, within tolerance.
func (se *SpreadsheetExtractor) bandIndex(bands []float64, coord float64, isRow bool) int {
	if isRow {
		// Bands are ascending Y; row 0 is the topmost band.
		for i := len(bands) - 1; i > 0; i-- {
			if coord >= bands[i]-se.bandTolerance {
				return len(bands) - 1 - i
			}
		}
		return len(bands) - 1
	}
	for i := 0; i < len(bands); i++ {
		if coord <= bands[i]+se.bandTolerance {
			return i
		}
	}
	return len(bands) - 1
}

// JoinReadingOrder concatenates fragments in natural reading order
// (top-to-bottom, left-to-right), used when a cell's text must be rebuilt
// from multiple TextChunks rather than via CellExtractor.
func JoinReadingOrder(lines []*Line) string {
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, c := range l.Chunks {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(c.Text())
		}
	}
	return strings.TrimSpace(sb.String())
}
