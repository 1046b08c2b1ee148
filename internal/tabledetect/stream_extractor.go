package tabledetect

import (
	"sort"

	"github.com/coregx/gxpdf/internal/extractor"
	domaintable "github.com/coregx/gxpdf/internal/models/table"
)

// StreamExtractor bins text chunks into a row x column matrix using an
// inferred (or caller-supplied) set of column boundaries (4.D).
type StreamExtractor struct {
	mixedModeEnabled bool
	mixedModeRatio   float64
	lineOverlap      float64
}

// NewStreamExtractor creates a StreamExtractor with mixed mode disabled.
func NewStreamExtractor() *StreamExtractor {
	return &StreamExtractor{
		mixedModeEnabled: false,
		mixedModeRatio:   0.33,
		lineOverlap:      0.5,
	}
}

// WithMixedMode enables or disables mixed-mode reinterpretation as a
// spreadsheet when horizontal rulings are dense relative to text lines.
func (se *StreamExtractor) WithMixedMode(enabled bool) *StreamExtractor {
	se.mixedModeEnabled = enabled
	return se
}

// Extract runs the stream extraction procedure over a page's text and
// optional horizontal rulings (used only for the mixed-mode trigger) and
// optional caller-supplied vertical ruling X positions.
func (se *StreamExtractor) Extract(
	textElements []*extractor.TextElement,
	horizontalRulings []*RulingLine,
	verticalRulingXs []float64,
	pageLeft, pageRight float64,
) (*domaintable.Table, error) {
	if len(textElements) == 0 {
		return domaintable.NewTable(1, 1)
	}

	var columns []float64
	var splitBarriers []float64
	if len(verticalRulingXs) > 0 {
		columns = append([]float64{}, verticalRulingXs...)
		sort.Float64s(columns)
		splitBarriers = columns
	}

	chunks := MergeElementsIntoChunks(textElements, splitBarriers)
	lines := GroupChunksIntoLines(chunks, se.lineOverlap)

	if columns == nil {
		columns = InferColumns(lines)
	}

	if se.mixedModeEnabled {
		if tbl, ok := se.tryMixedMode(lines, horizontalRulings, columns, pageLeft, pageRight); ok {
			return tbl, nil
		}
	}

	return se.buildStreamTable(lines, columns)
}

// buildStreamTable assigns each line's chunks to the smallest column whose
// right edge is >= the chunk's left edge, falling back to an overflow
// column when no column matches.
func (se *StreamExtractor) buildStreamTable(lines []*Line, columns []float64) (*domaintable.Table, error) {
	colCount := len(columns) + 1
	if colCount < 1 {
		colCount = 1
	}
	rowCount := len(lines)
	if rowCount < 1 {
		rowCount = 1
	}

	tbl, err := domaintable.NewTable(rowCount, colCount)
	if err != nil {
		return nil, err
	}
	tbl.Method = "stream"

	for i, line := range lines {
		for _, chunk := range line.Chunks {
			if chunk.IsWhitespace() {
				continue
			}
			col := len(columns) // overflow column by default
			for j, edge := range columns {
				if chunk.Bounds.Left() <= edge {
					col = j
					break
				}
			}

			existing := tbl.GetCell(i, col)
			text := chunk.Text()
			if existing != nil && existing.Text != "" {
				text = existing.Text + " " + text
			}
			cell := domaintable.NewCellWithBounds(text, i, col, domaintable.Rectangle{
				X: chunk.Bounds.Left(), Y: chunk.Bounds.Bottom(),
				Width: chunk.Bounds.Width, Height: chunk.Bounds.Height,
			})
			_ = tbl.SetCell(i, col, cell)
		}
	}

	return tbl, nil
}

// tryMixedMode implements 4.D step 4: if meaningful horizontal rulings per
// text line exceed the mixed-mode ratio, synthesize a ruling set (page-edge
// rulings plus vertical rulings at column+1) and delegate to the
// spreadsheet extractor.
func (se *StreamExtractor) tryMixedMode(
	lines []*Line,
	horizontalRulings []*RulingLine,
	columns []float64,
	pageLeft, pageRight float64,
) (*domaintable.Table, bool) {
	if len(lines) == 0 {
		return nil, false
	}

	textTop, textBottom := lines[0].Top, lines[0].Bottom
	for _, l := range lines {
		textTop = maxF(textTop, l.Top)
		textBottom = minF(textBottom, l.Bottom)
	}

	var meaningful []*RulingLine
	for _, r := range horizontalRulings {
		y := r.Start.Y
		if y < textBottom-1 || y > textTop+1 {
			continue // lies entirely above or below all text: discounted
		}
		meaningful = append(meaningful, r)
	}

	ratio := float64(len(meaningful)) / float64(len(lines))
	if ratio <= se.mixedModeRatio {
		return nil, false
	}

	synthesized := make([]*RulingLine, len(meaningful))
	copy(synthesized, meaningful)

	topMostRuling := textTop
	for _, r := range meaningful {
		topMostRuling = minF(topMostRuling, r.Start.Y)
	}
	if textTop > topMostRuling {
		synthesized = append(synthesized, NewRulingLine(
			extractor.NewPoint(pageLeft, textTop+1),
			extractor.NewPoint(pageRight, textTop+1),
		))
	}
	synthesized = append(synthesized, NewRulingLine(
		extractor.NewPoint(pageLeft, textBottom-1),
		extractor.NewPoint(pageRight, textBottom-1),
	))

	var vertical []*RulingLine
	for _, x := range columns {
		vertical = append(vertical, NewRulingLine(
			extractor.NewPoint(x+1, textBottom-1),
			extractor.NewPoint(x+1, textTop+1),
		))
	}
	vertical = append(vertical,
		NewRulingLine(extractor.NewPoint(pageLeft, textBottom-1), extractor.NewPoint(pageLeft, textTop+1)),
		NewRulingLine(extractor.NewPoint(pageRight, textBottom-1), extractor.NewPoint(pageRight, textTop+1)),
	)

	finder := NewCellFinder()
	cells := finder.FindCells(synthesized, vertical)
	if len(cells) == 0 {
		return nil, false
	}

	var allText []*extractor.TextElement
	for _, l := range lines {
		for _, c := range l.Chunks {
			allText = append(allText, c.Elements...)
		}
	}

	tbl, err := NewSpreadsheetExtractor().Extract(cells, allText)
	if err != nil {
		return nil, false
	}
	return tbl, true
}
