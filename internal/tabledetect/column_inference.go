package tabledetect

import (
	"sort"

	"github.com/coregx/gxpdf/internal/extractor"
)

// InferColumns derives a sequence of column right-edges from text lines
// alone (4.C). Lines must already be sorted top to bottom.
//
// Titles and footer notes pollute column statistics, so a tiered fraction
// of lines at the head and tail is used only to "probe" for columns that
// appear nowhere else (e.g. header-only columns) without being allowed to
// merge into the trusted middle range's regions.
func InferColumns(lines []*Line) []float64 {
	if len(lines) == 0 {
		return nil
	}

	start, skipEnd := columnInferenceSchedule(len(lines))
	end := len(lines) - skipEnd // exclusive

	var regions []extractor.Rectangle

	// Seed from the chosen start line.
	for _, chunk := range lines[start].Chunks {
		if chunk.IsWhitespace() {
			continue
		}
		regions = append(regions, chunk.Bounds)
	}

	// Probe mode over the skipped head lines before start (exclusive of start itself).
	for i := 0; i < start; i++ {
		regions = probeLine(lines[i], regions)
	}

	// Merge mode over the trusted middle range.
	for i := start + 1; i < end; i++ {
		regions = mergeLine(lines[i], regions)
	}

	// Probe mode over the skipped tail lines.
	for i := end; i < len(lines); i++ {
		regions = probeLine(lines[i], regions)
	}

	// Finalize: collapse any regions whose X-intervals still overlap.
	regions = mergeOverlappingRegions(regions)

	edges := make([]float64, len(regions))
	for i, r := range regions {
		edges[i] = r.Right()
	}
	sort.Float64s(edges)
	return edges
}

// columnInferenceSchedule chooses the trusted-range start index and the
// number of lines to skip (probe only) at the tail, based on line count.
func columnInferenceSchedule(lineCount int) (start, skipEnd int) {
	switch {
	case lineCount <= 4:
		return 0, 0
	case lineCount <= 7:
		return 1, 1
	default:
		return 2, 2
	}
}

// mergeLine merges a line's chunks into any overlapping region (bounding-box
// union); unmatched chunks seed new regions.
func mergeLine(line *Line, regions []extractor.Rectangle) []extractor.Rectangle {
	for _, chunk := range line.Chunks {
		if chunk.IsWhitespace() {
			continue
		}
		matched := false
		for i, r := range regions {
			if r.HorizontallyOverlaps(chunk.Bounds) {
				regions[i] = r.Merge(chunk.Bounds)
				matched = true
			}
		}
		if !matched {
			regions = append(regions, chunk.Bounds)
		}
	}
	return regions
}

// probeLine seeds new regions from unmatched chunks without merging into
// existing ones, so header/footer-only columns are captured but cannot
// distort the trusted middle range's regions.
func probeLine(line *Line, regions []extractor.Rectangle) []extractor.Rectangle {
	for _, chunk := range line.Chunks {
		if chunk.IsWhitespace() {
			continue
		}
		matched := false
		for _, r := range regions {
			if r.HorizontallyOverlaps(chunk.Bounds) {
				matched = true
				break
			}
		}
		if !matched {
			regions = append(regions, chunk.Bounds)
		}
	}
	return regions
}
