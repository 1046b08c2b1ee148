package tabledetect

import (
	"fmt"
	"sort"

	"github.com/coregx/gxpdf/internal/extractor"
)

// Line is an ordered sequence of TextChunks grouped by Y-band: a single
// visual row of text on the page.
//
// Two chunks belong to the same line if their vertical projections overlap
// by at least a per-page threshold (GroupChunksIntoLines below), rather than
// by a fixed-distance heuristic; this tolerates pages with mixed font sizes
// better than a constant Y-delta.
type Line struct {
	Top, Bottom, Left, Right float64
	Chunks                   []*extractor.TextChunk
}

// NewLine creates a Line from a single chunk.
func NewLine(chunk *extractor.TextChunk) *Line {
	l := &Line{Chunks: []*extractor.TextChunk{chunk}}
	l.recalculateBounds()
	return l
}

// Add appends a chunk to the line and recomputes bounds.
func (l *Line) Add(chunk *extractor.TextChunk) {
	l.Chunks = append(l.Chunks, chunk)
	l.recalculateBounds()
}

func (l *Line) recalculateBounds() {
	first := l.Chunks[0].Bounds
	minX, minY, maxX, maxY := first.Left(), first.Bottom(), first.Right(), first.Top()
	for _, c := range l.Chunks[1:] {
		b := c.Bounds
		minX = minF(minX, b.Left())
		minY = minF(minY, b.Bottom())
		maxX = maxF(maxX, b.Right())
		maxY = maxF(maxY, b.Top())
	}
	l.Left, l.Bottom, l.Right, l.Top = minX, minY, maxX, maxY
}

// verticalOverlap returns the line's vertical overlap fraction with a chunk,
// measured against the shorter of the line's height and the chunk's height.
func (l *Line) verticalOverlap(chunk *extractor.TextChunk) float64 {
	b := chunk.Bounds
	top := minF(l.Top, b.Top())
	bottom := maxF(l.Bottom, b.Bottom())
	overlap := top - bottom
	if overlap <= 0 {
		return 0
	}
	shorter := minF(l.Top-l.Bottom, b.Top()-b.Bottom())
	if shorter <= 0 {
		return 0
	}
	return overlap / shorter
}

// SortChunks orders the line's chunks left to right.
func (l *Line) SortChunks() {
	sort.Slice(l.Chunks, func(i, j int) bool {
		return l.Chunks[i].Bounds.Left() < l.Chunks[j].Bounds.Left()
	})
}

// String returns a debug representation of the line.
func (l *Line) String() string {
	return fmt.Sprintf("Line{top=%.2f, bottom=%.2f, left=%.2f, right=%.2f, chunks=%d}",
		l.Top, l.Bottom, l.Left, l.Right, len(l.Chunks))
}

// MergeElementsIntoChunks merges adjacent TextElements on the same baseline
// and of the same font into TextChunks, splitting at any X position in
// splitBarriers (used by the stream extractor when vertical rulings exist).
//
// Two elements merge when they share a font name, their Y ranges overlap,
// and the horizontal gap between them is small relative to font size.
func MergeElementsIntoChunks(elements []*extractor.TextElement, splitBarriers []float64) []*extractor.TextChunk {
	if len(elements) == 0 {
		return nil
	}

	sorted := make([]*extractor.TextElement, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var chunks []*extractor.TextChunk
	var current []*extractor.TextElement

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, extractor.NewTextChunk(current))
			current = nil
		}
	}

	for i, elem := range sorted {
		if len(current) == 0 {
			current = append(current, elem)
			continue
		}

		prev := current[len(current)-1]
		gap := elem.X - prev.Right()
		sameBaseline := absF(elem.Y-prev.Y) < minF(elem.Height, prev.Height)*0.5
		sameFont := elem.FontName == prev.FontName
		maxGap := prev.FontSize * 0.35
		if maxGap <= 0 {
			maxGap = 2.0
		}

		crossesBarrier := false
		for _, x := range splitBarriers {
			if prev.Right() < x && elem.X >= x {
				crossesBarrier = true
				break
			}
		}

		if sameBaseline && sameFont && gap <= maxGap && gap >= -1.0 && !crossesBarrier {
			current = append(current, elem)
		} else {
			flush()
			current = append(current, elem)
		}
		_ = i
	}
	flush()

	return chunks
}

// GroupChunksIntoLines groups TextChunks into Lines by vertical overlap.
//
// A chunk joins the first (topmost) line whose vertical projection it overlaps
// by at least overlapThreshold (fraction of the shorter height); otherwise a
// new line is started. Lines are returned sorted top to bottom.
func GroupChunksIntoLines(chunks []*extractor.TextChunk, overlapThreshold float64) []*Line {
	if len(chunks) == 0 {
		return nil
	}

	sorted := make([]*extractor.TextChunk, len(chunks))
	copy(sorted, chunks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Bounds.Top() > sorted[j].Bounds.Top()
	})

	var lines []*Line
	for _, chunk := range sorted {
		var target *Line
		for _, l := range lines {
			if l.verticalOverlap(chunk) >= overlapThreshold {
				target = l
				break
			}
		}
		if target == nil {
			lines = append(lines, NewLine(chunk))
		} else {
			target.Add(chunk)
		}
	}

	for _, l := range lines {
		l.SortChunks()
	}

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Top > lines[j].Top
	})
	return lines
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
