package tabledetect

import (
	"math"
	"sort"
)

// Edge constants for text-edge discovery (4.H).
const (
	RequiredLinesForEdge = 4    // minimum samples for an edge to be retained
	midHalfRange         = 1.5  // constant half-range for MID edges
	sideBaseHalfRange    = 2.0  // base half-range for LEFT/RIGHT edges before distance scaling
	backtrackTolerance   = 1.0  // constant tolerance used when seeding a new range from its neighbor
	blowoutFactorDivisor = 2.0  // a range blows out when the edge drifts past halfRange/this
	marginDropDistance   = 8.0  // LEFT edges this close to the text bbox left are page margin, not table
	bulletReduceDistance = 5.0  // X proximity for bullet-point reduction
	bulletOverlapPercent = 0.9  // Y-overlap percent above which the longer edge is dropped
)

// EdgeType identifies which sample (left, center-of-line, right) an edge
// tracks.
type EdgeType int

const (
	// EdgeLeft tracks chunks' left edges.
	EdgeLeft EdgeType = iota
	// EdgeMid tracks chunks' horizontal midpoints.
	EdgeMid
	// EdgeRight tracks chunks' right edges.
	EdgeRight
)

// TextEdge is a vertical alignment line discovered across many chunks.
type TextEdge struct {
	Type                     EdgeType
	X                        float64
	Top, Bottom              float64
	IntersectingTextRowCount int
}

// Intersects reports whether the band from bottom to top overlaps the edge's
// vertical span.
func (e *TextEdge) Intersects(top, bottom float64) bool {
	return top >= e.Bottom && bottom <= e.Top
}

// textEdgeSample is one observation fed into a range: the sample value and
// the chunk's Y band, used for backtracking and distance scaling.
type textEdgeSample struct {
	value      float64
	top        float64
	bottom     float64
}

// textEdgeRange is an in-progress cluster of aligned samples.
type textEdgeRange struct {
	edgeType EdgeType
	samples  []textEdgeSample
	avg      float64
	top      float64 // Y of the first (topmost) sample
	bottom   float64 // Y of the last (bottommost) sample
}

func newTextEdgeRange(edgeType EdgeType, s textEdgeSample) *textEdgeRange {
	return &textEdgeRange{
		edgeType: edgeType,
		samples:  []textEdgeSample{s},
		avg:      s.value,
		top:      s.top,
		bottom:   s.bottom,
	}
}

func (r *textEdgeRange) add(s textEdgeSample) {
	r.samples = append(r.samples, s)
	sum := 0.0
	for _, smp := range r.samples {
		sum += smp.value
	}
	r.avg = sum / float64(len(r.samples))
	r.bottom = s.bottom
}

func (r *textEdgeRange) toEdge() *TextEdge {
	return &TextEdge{
		Type:                     r.edgeType,
		X:                        r.avg,
		Top:                      r.top,
		Bottom:                   r.bottom,
		IntersectingTextRowCount: len(r.samples),
	}
}

// halfRange computes the absorption half-width for a sample arriving at
// distance (vertical gap to the range's last sample).
func (r *textEdgeRange) halfRange(distance float64) float64 {
	if r.edgeType == EdgeMid {
		return midHalfRange
	}
	d := math.Max(distance, 1e-6)
	scale := 60.0 / (d * math.Log(math.Max(d, 10)))
	return sideBaseHalfRange * scale
}

// TextEdgeAnalyzer discovers X-coordinates at which chunks repeatedly align.
type TextEdgeAnalyzer struct{}

// NewTextEdgeAnalyzer creates a TextEdgeAnalyzer.
func NewTextEdgeAnalyzer() *TextEdgeAnalyzer {
	return &TextEdgeAnalyzer{}
}

// Analyze scans lines top-to-bottom and returns retained TextEdges,
// already post-filtered for page margins and bullet-point duplicates.
func (a *TextEdgeAnalyzer) Analyze(lines []*Line, textBoundsLeft float64) []*TextEdge {
	left := &edgeTracker{edgeType: EdgeLeft}
	mid := &edgeTracker{edgeType: EdgeMid}
	right := &edgeTracker{edgeType: EdgeRight}

	for _, line := range lines {
		for _, chunk := range line.Chunks {
			if chunk.IsWhitespace() {
				continue
			}
			b := chunk.Bounds
			sample := func(v float64) textEdgeSample {
				return textEdgeSample{value: v, top: b.Top(), bottom: b.Bottom()}
			}
			left.observe(sample(b.Left()), b.Left(), b.Right())
			mid.observe(sample((b.Left()+b.Right())/2), b.Left(), b.Right())
			right.observe(sample(b.Right()), b.Left(), b.Right())
		}
	}

	var edges []*TextEdge
	edges = append(edges, left.finish()...)
	edges = append(edges, mid.finish()...)
	edges = append(edges, right.finish()...)

	edges = dropMarginEdges(edges, textBoundsLeft)
	edges = reduceBulletEdges(edges)
	return edges
}

// edgeTracker holds the active-range state for one edge type across the
// whole document scan.
type edgeTracker struct {
	edgeType EdgeType
	active   []*textEdgeRange
	retained []*TextEdge
	lastY    float64
	haveLast bool
}

func (t *edgeTracker) observe(s textEdgeSample, chunkLeft, chunkRight float64) {
	distance := 10.0
	if t.haveLast {
		distance = math.Abs(t.lastY - s.top)
	}
	t.lastY = s.bottom
	t.haveLast = true

	var absorbed *textEdgeRange
	for _, r := range t.active {
		if math.Abs(s.value-r.avg) < r.halfRange(distance) {
			absorbed = r
			break
		}
	}

	if absorbed != nil {
		absorbed.add(s)
	} else {
		nr := newTextEdgeRange(t.edgeType, s)
		// Backtrack: seed the new range with recent samples from the closest
		// existing range that are still within constant tolerance.
		if closest := t.closest(s.value); closest != nil {
			for i := len(closest.samples) - 1; i >= 0; i-- {
				smp := closest.samples[i]
				if math.Abs(smp.value-s.value) > backtrackTolerance {
					break
				}
				nr.samples = append([]textEdgeSample{smp}, nr.samples...)
			}
			if len(nr.samples) > 1 {
				sum := 0.0
				for _, smp := range nr.samples {
					sum += smp.value
				}
				nr.avg = sum / float64(len(nr.samples))
				nr.top = nr.samples[0].top
			}
		}
		t.active = append(t.active, nr)
	}

	// Blow-out check: a range whose average lies within this chunk's
	// horizontal span but whose edge has drifted too far is stale.
	var stillActive []*textEdgeRange
	for _, r := range t.active {
		if r.avg >= chunkLeft && r.avg <= chunkRight {
			if math.Abs(s.value-r.avg) > r.halfRange(distance)/blowoutFactorDivisor {
				t.retire(r)
				continue
			}
		}
		stillActive = append(stillActive, r)
	}
	t.active = stillActive
}

func (t *edgeTracker) closest(value float64) *textEdgeRange {
	var best *textEdgeRange
	bestDist := math.MaxFloat64
	for _, r := range t.active {
		d := math.Abs(r.avg - value)
		if d < bestDist {
			bestDist = d
			best = r
		}
	}
	return best
}

func (t *edgeTracker) retire(r *textEdgeRange) {
	if len(r.samples) >= RequiredLinesForEdge {
		t.retained = append(t.retained, r.toEdge())
	}
}

func (t *edgeTracker) finish() []*TextEdge {
	for _, r := range t.active {
		if len(r.samples) >= RequiredLinesForEdge {
			t.retained = append(t.retained, r.toEdge())
		}
	}
	return t.retained
}

// dropMarginEdges drops LEFT edges within marginDropDistance of the text
// bounding box's left edge: those track the page margin, not a table.
func dropMarginEdges(edges []*TextEdge, textBoundsLeft float64) []*TextEdge {
	var kept []*TextEdge
	for _, e := range edges {
		if e.Type == EdgeLeft && math.Abs(e.X-textBoundsLeft) < marginDropDistance {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// reduceBulletEdges drops duplicate edges produced by bullet-point lists:
// sort by height (shortest span first), then drop any longer edge whose X
// is close to an earlier, shorter one and whose Y-overlap with it exceeds
// bulletOverlapPercent of the shorter span.
func reduceBulletEdges(edges []*TextEdge) []*TextEdge {
	sorted := make([]*TextEdge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool {
		return (sorted[i].Top - sorted[i].Bottom) < (sorted[j].Top - sorted[j].Bottom)
	})

	var kept []*TextEdge
	for _, e := range sorted {
		drop := false
		for _, k := range kept {
			if math.Abs(e.X-k.X) > bulletReduceDistance {
				continue
			}
			if yOverlapPercent(e, k) > bulletOverlapPercent {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, e)
		}
	}
	return kept
}

func yOverlapPercent(a, b *TextEdge) float64 {
	top := math.Min(a.Top, b.Top)
	bottom := math.Max(a.Bottom, b.Bottom)
	overlap := top - bottom
	if overlap <= 0 {
		return 0
	}
	shorter := math.Min(a.Top-a.Bottom, b.Top-b.Bottom)
	if shorter <= 0 {
		return 0
	}
	return overlap / shorter
}
