package tabledetect

import (
	"errors"
	"image"
	"math"
	"sort"

	"github.com/coregx/gxpdf/internal/extractor"
)

// Nurminen detection constants (4.I), named per the algorithm's own tuning
// table.
const (
	CellCorner            = 10.0 // corner-proximity tolerance for clustering cells into table areas
	RequiredCellsForTable = 4    // minimum clustered cells to seed a table area
	Padding               = 1.0  // page-space padding applied when scaling areas up from raster space
	IdenticalOverlap      = 0.9  // dedup overlap threshold
	rowHeightBottomFactor = 1.5
	rowHeightTopFactor    = 2.0
	wideChunkPageFraction = 0.38 // chunks wider than this fraction of page width are paragraph text, not table cells
)

// ErrDetectNotRun is a programmer error: BluntDetect requires a prior
// successful Detect call to have populated the cached DetectionResult.
var ErrDetectNotRun = errors.New("tabledetect: BluntDetect called before a successful Detect")

// PageSource is the view of a page the detection core consumes: its text,
// geometry, and two renderings of its raster (full, and text-suppressed
// for the vertical-ruling pass).
type PageSource interface {
	Text() []*extractor.TextElement
	Width() float64
	Height() float64
	Bounds() extractor.Rectangle
	TextBounds() extractor.Rectangle
	Rasterize(dpi int) (*image.Gray, error)
	RasterizeTextSuppressed(dpi int) (*image.Gray, error)
}

// rulingPixelDetector is the subset of raster.RulingPixelDetector the core
// depends on, so tabledetect does not import internal/raster directly.
type rulingPixelDetector interface {
	DetectSeparate(hImg, vImg *image.Gray) (horizontal, vertical []*RulingLine)
}

// DetectionResult caches the intermediate state of a Detect call so
// BluntDetect can retry with relaxed thresholds without redoing the raster
// scan.
type DetectionResult struct {
	Areas           []extractor.Rectangle
	Cells           []extractor.Rectangle
	Horizontal      []*RulingLine
	Vertical        []*RulingLine
	Lines           []*Line
	TextBoundingBox extractor.Rectangle
}

// NurminenDetector orchestrates ruling detection, cell clustering, and the
// iterative text-edge pass into a final set of table areas (4.I).
type NurminenDetector struct {
	ruling rulingPixelDetector
	cells  *CellFinder
	edges  *TextEdgeAnalyzer
	last   *DetectionResult
}

// NewNurminenDetector creates a NurminenDetector backed by the given
// pixel-ruling detector (typically raster.NewRulingPixelDetector()), kept
// behind an interface so this package does not import internal/raster.
func NewNurminenDetector(pixelDetector rulingPixelDetector) *NurminenDetector {
	return &NurminenDetector{
		ruling: pixelDetector,
		cells:  NewCellFinder().WithTolerance(CellCorner / 2),
		edges:  NewTextEdgeAnalyzer(),
	}
}

// Detect runs the full table-area detection loop and returns the final
// areas in page coordinates.
func (d *NurminenDetector) Detect(ps PageSource) ([]extractor.Rectangle, *DetectionResult, error) {
	fullRaster, err := ps.Rasterize(raster144DPI)
	if err != nil {
		return nil, nil, nil //nolint:nilerr // rasterization failure yields an empty result, not an error
	}
	suppressedRaster, err := ps.RasterizeTextSuppressed(raster144DPI)
	if err != nil {
		suppressedRaster = fullRaster
	}

	horizontal, vertical := d.ruling.DetectSeparate(fullRaster, suppressedRaster)

	cells := d.cells.FindCells(horizontal, vertical)
	areas := d.clusterCellsIntoAreas(cells, vertical)

	for i, a := range areas {
		areas[i] = scaleAndPad(a, ps.Height())
	}

	textElements := ps.Text()
	chunks := MergeElementsIntoChunks(textElements, nil)
	var filtered []*extractor.TextChunk
	maxChunkWidth := ps.Width() * wideChunkPageFraction
	for _, c := range chunks {
		if c.Bounds.Width <= maxChunkWidth {
			filtered = append(filtered, c)
		}
	}
	lines := GroupChunksIntoLines(filtered, 0.5)

	areas = d.expandAreasToText(areas, lines)
	areas = dropAreasWithNoText(areas, lines)

	textBounds := ps.TextBounds()
	for {
		remaining := linesOutsideAreas(lines, areas)
		if len(remaining) == 0 {
			break
		}
		edgeList := d.edges.Analyze(remaining, textBounds.Left())
		edgeType, count, ok := getRelevantEdges(edgeList, len(remaining))
		if !ok {
			break
		}
		area, found := getTableFromText(remaining, edgeList, edgeType, count)
		if !found {
			break
		}
		areas = append(areas, area)
	}

	areas = dedupAreas(areas)

	result := &DetectionResult{
		Areas:           areas,
		Cells:           cells,
		Horizontal:      horizontal,
		Vertical:        vertical,
		Lines:           lines,
		TextBoundingBox: textBounds,
	}
	d.last = result
	return areas, result, nil
}

const raster144DPI = 144

// clusterCellsIntoAreas groups cells whose corners lie within CellCorner of
// each other; a cluster with at least RequiredCellsForTable cells becomes a
// table area, grown to include any vertical ruling piercing its body.
func (d *NurminenDetector) clusterCellsIntoAreas(cells []extractor.Rectangle, vertical []*RulingLine) []extractor.Rectangle {
	if len(cells) == 0 {
		return nil
	}

	uf := newUnionFind(len(cells))
	for i := range cells {
		for j := i + 1; j < len(cells); j++ {
			if cellsShareCorner(cells[i], cells[j], CellCorner) {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := range cells {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	var areas []extractor.Rectangle
	for _, idxs := range groups {
		if len(idxs) < RequiredCellsForTable {
			continue
		}
		area := cells[idxs[0]]
		for _, idx := range idxs[1:] {
			area = area.Merge(cells[idx])
		}
		for _, v := range vertical {
			vx := v.Start.X
			if vx > area.Left() && vx < area.Right() &&
				math.Max(v.Start.Y, v.End.Y) >= area.Bottom() && math.Min(v.Start.Y, v.End.Y) <= area.Top() {
				area = area.Merge(extractor.NewRectangle(vx, math.Min(v.Start.Y, v.End.Y), 0, math.Abs(v.End.Y-v.Start.Y)))
			}
		}
		areas = append(areas, area)
	}
	return areas
}

func cellsShareCorner(a, b extractor.Rectangle, tolerance float64) bool {
	corners := func(r extractor.Rectangle) [4][2]float64 {
		return [4][2]float64{
			{r.Left(), r.Top()}, {r.Right(), r.Top()},
			{r.Left(), r.Bottom()}, {r.Right(), r.Bottom()},
		}
	}
	for _, ca := range corners(a) {
		for _, cb := range corners(b) {
			if math.Abs(ca[0]-cb[0]) <= tolerance && math.Abs(ca[1]-cb[1]) <= tolerance {
				return true
			}
		}
	}
	return false
}

// scaleAndPad converts a raster-space rectangle (2x page units) to page
// space and pads it by Padding.
func scaleAndPad(r extractor.Rectangle, _ float64) extractor.Rectangle {
	return extractor.NewRectangle(
		r.X/2-Padding, r.Y/2-Padding,
		r.Width/2+2*Padding, r.Height/2+2*Padding,
	)
}

// expandAreasToText widens each area's left/right bounds to include any
// text line whose vertical span intersects the area.
func (d *NurminenDetector) expandAreasToText(areas []extractor.Rectangle, lines []*Line) []extractor.Rectangle {
	out := make([]extractor.Rectangle, len(areas))
	for i, a := range areas {
		left, right := a.Left(), a.Right()
		for _, l := range lines {
			if l.Top < a.Bottom() || l.Bottom > a.Top() {
				continue
			}
			left = math.Min(left, l.Left)
			right = math.Max(right, l.Right)
		}
		out[i] = extractor.NewRectangle(left, a.Bottom(), right-left, a.Height)
	}
	return out
}

func dropAreasWithNoText(areas []extractor.Rectangle, lines []*Line) []extractor.Rectangle {
	var kept []extractor.Rectangle
	for _, a := range areas {
		hasText := false
		for _, l := range lines {
			if l.Top >= a.Bottom() && l.Bottom <= a.Top() {
				hasText = true
				break
			}
		}
		if hasText {
			kept = append(kept, a)
		}
	}
	return kept
}

func linesOutsideAreas(lines []*Line, areas []extractor.Rectangle) []*Line {
	var out []*Line
	for _, l := range lines {
		inside := false
		for _, a := range areas {
			if l.Top <= a.Top() && l.Bottom >= a.Bottom() {
				inside = true
				break
			}
		}
		if !inside {
			out = append(out, l)
		}
	}
	return out
}

// getRelevantEdges scans edge-counts by intersecting-row-count from the
// largest downward, preferring mid edges when at least 2 exist (with a
// group of >=2 sharing a count), else side edges when at least 3 exist.
func getRelevantEdges(edges []*TextEdge, totalLines int) (EdgeType, int, bool) {
	byType := map[EdgeType][]*TextEdge{}
	for _, e := range edges {
		byType[e.Type] = append(byType[e.Type], e)
	}

	if mids := byType[EdgeMid]; len(mids) >= 2 {
		if count, ok := bestSharedCount(mids, 2); ok {
			return EdgeMid, min(count, totalLines), true
		}
	}

	var sides []*TextEdge
	sides = append(sides, byType[EdgeLeft]...)
	sides = append(sides, byType[EdgeRight]...)
	if len(sides) >= 3 {
		if count, ok := bestSharedCount(sides, 3); ok {
			edgeType := EdgeLeft
			if len(byType[EdgeRight]) > len(byType[EdgeLeft]) {
				edgeType = EdgeRight
			}
			return edgeType, min(count, totalLines), true
		}
	}

	return 0, 0, false
}

// bestSharedCount finds the largest IntersectingTextRowCount shared by at
// least minGroup edges.
func bestSharedCount(edges []*TextEdge, minGroup int) (int, bool) {
	counts := map[int]int{}
	for _, e := range edges {
		counts[e.IntersectingTextRowCount]++
	}
	best, found := 0, false
	for c, n := range counts {
		if n >= minGroup && c > best {
			best = c
			found = true
		}
	}
	return best, found
}

// getTableFromText walks lines top-to-bottom, opening a table when a line
// intersects enough relevant edges and closing it when the row-spacing gap
// grows too large or a line touches no edges.
func getTableFromText(lines []*Line, edges []*TextEdge, edgeType EdgeType, count int) (extractor.Rectangle, bool) {
	slack := 0
	if count > 3 {
		slack = 1
	}
	threshold := count - slack

	var relevant []*TextEdge
	for _, e := range edges {
		if e.Type == edgeType {
			relevant = append(relevant, e)
		}
	}

	var tableLines []*Line
	avgSpacing := 0.0
	var lastTop float64
	haveLast := false

	for _, l := range lines {
		intersecting := 0
		for _, e := range relevant {
			if e.Intersects(l.Top, l.Bottom) {
				intersecting++
			}
		}

		if len(tableLines) == 0 {
			if intersecting >= threshold {
				tableLines = append(tableLines, l)
				lastTop = l.Top
				haveLast = true
			}
			continue
		}

		if intersecting == 0 {
			break
		}

		if haveLast {
			gap := lastTop - l.Top
			if avgSpacing > 0 && gap > 2.5*avgSpacing {
				break
			}
		}

		n := float64(len(tableLines))
		spacing := lastTop - l.Top
		avgSpacing = (avgSpacing*n + spacing) / (n + 1)
		tableLines = append(tableLines, l)
		lastTop = l.Top
	}

	if len(tableLines) == 0 {
		return extractor.Rectangle{}, false
	}

	top := tableLines[0].Top
	bottom := tableLines[len(tableLines)-1].Bottom
	left, right := tableLines[0].Left, tableLines[0].Right
	for _, l := range tableLines {
		left = math.Min(left, l.Left)
		right = math.Max(right, l.Right)
	}

	if avgSpacing > 0 {
		bottom -= rowHeightBottomFactor * avgSpacing
		top += rowHeightTopFactor * avgSpacing
	}

	area := extractor.NewRectangle(left-Padding, bottom-Padding, right-left+2*Padding, top-bottom+2*Padding)
	return area, true
}

// dedupAreas sorts areas by area descending and drops each area contained
// or >=0.9-overlapped by an earlier retained area. Sorting first and
// comparing only against already-retained areas makes this pass
// transitive, unlike a pairwise any-order comparator.
func dedupAreas(areas []extractor.Rectangle) []extractor.Rectangle {
	sorted := make([]extractor.Rectangle, len(areas))
	copy(sorted, areas)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Area() > sorted[j].Area()
	})

	var kept []extractor.Rectangle
	for _, a := range sorted {
		dominated := false
		for _, k := range kept {
			if k.ContainsRect(a) || k.OverlapRatio(a) >= IdenticalOverlap {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, a)
		}
	}
	return kept
}

// BluntDetect retries area discovery with relaxed thresholds, scanning
// edgeCount from 8 down to 3 and overlap target from 0.7 down to 0.1,
// returning the first area whose vertical overlap with the text bounding
// box exceeds the threshold. It requires a prior successful Detect call.
func (d *NurminenDetector) BluntDetect() (extractor.Rectangle, error) {
	if d.last == nil {
		return extractor.Rectangle{}, ErrDetectNotRun
	}

	for edgeCount := 8; edgeCount >= 3; edgeCount-- {
		for overlapTarget := 0.7; overlapTarget >= 0.1; overlapTarget -= 0.1 {
			remaining := linesOutsideAreas(d.last.Lines, d.last.Areas)
			edgeList := d.edges.Analyze(remaining, d.last.TextBoundingBox.Left())
			area, found := getTableFromText(remaining, edgeList, EdgeMid, edgeCount)
			if !found {
				continue
			}
			if verticalOverlapRatio(area, d.last.TextBoundingBox) >= overlapTarget {
				return area, nil
			}
		}
	}
	return extractor.Rectangle{}, nil
}

func verticalOverlapRatio(a, b extractor.Rectangle) float64 {
	top := math.Min(a.Top(), b.Top())
	bottom := math.Max(a.Bottom(), b.Bottom())
	overlap := top - bottom
	if overlap <= 0 {
		return 0
	}
	shorter := math.Min(a.Top()-a.Bottom(), b.Top()-b.Bottom())
	if shorter <= 0 {
		return 0
	}
	return overlap / shorter
}
