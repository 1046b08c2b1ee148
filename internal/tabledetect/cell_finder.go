package tabledetect

import (
	"math"
	"sort"

	"github.com/coregx/gxpdf/internal/extractor"
)

// CellFinder computes the grid of minimal cell rectangles bounded by
// horizontal and vertical rulings (4.E).
type CellFinder struct {
	tolerance float64
}

// NewCellFinder creates a CellFinder with the default corner tolerance.
func NewCellFinder() *CellFinder {
	return &CellFinder{tolerance: 2.0}
}

// WithTolerance sets the tolerance used when checking that a ruling segment
// covers a rectangle's corresponding span.
func (cf *CellFinder) WithTolerance(tol float64) *CellFinder {
	cf.tolerance = tol
	return cf
}

// FindCells returns the minimal cell rectangles bounded by horizontal and
// vertical rulings.
//
// For every pair of horizontal rulings (top, bottom) and vertical rulings
// (left, right), a cell is emitted only if all four sides are actually
// covered by a ruling segment spanning the corresponding edge -- not merely
// if the lines cross somewhere on the page. Minimality then drops any cell
// that contains another cell's top-left corner in its interior or on its top
// or left edge, since a larger span would otherwise mask the true grid.
func (cf *CellFinder) FindCells(horizontal, vertical []*RulingLine) []extractor.Rectangle {
	if len(horizontal) < 2 || len(vertical) < 2 {
		return nil
	}

	hSorted := make([]*RulingLine, len(horizontal))
	copy(hSorted, horizontal)
	sort.Slice(hSorted, func(i, j int) bool { return hSorted[i].Start.Y > hSorted[j].Start.Y }) // top to bottom

	vSorted := make([]*RulingLine, len(vertical))
	copy(vSorted, vertical)
	sort.Slice(vSorted, func(i, j int) bool { return vSorted[i].Start.X < vSorted[j].Start.X }) // left to right

	var cells []extractor.Rectangle
	seen := make(map[[4]int]bool)

	for hi := 0; hi < len(hSorted)-1; hi++ {
		top := hSorted[hi]
		for hj := hi + 1; hj < len(hSorted); hj++ {
			bottom := hSorted[hj]
			if bottom.Start.Y >= top.Start.Y {
				continue
			}
			for vi := 0; vi < len(vSorted)-1; vi++ {
				left := vSorted[vi]
				for vj := vi + 1; vj < len(vSorted); vj++ {
					right := vSorted[vj]
					if right.Start.X <= left.Start.X {
						continue
					}

					x1, x2 := left.Start.X, right.Start.X
					y1, y2 := top.Start.Y, bottom.Start.Y

					if !cf.coversSpan(top, x1, x2, true) ||
						!cf.coversSpan(bottom, x1, x2, true) ||
						!cf.coversSpan(left, y2, y1, false) ||
						!cf.coversSpan(right, y2, y1, false) {
						continue
					}

					key := [4]int{
						int(math.Round(x1 / cf.tolerance)),
						int(math.Round(y1 / cf.tolerance)),
						int(math.Round(x2 / cf.tolerance)),
						int(math.Round(y2 / cf.tolerance)),
					}
					if seen[key] {
						continue
					}
					seen[key] = true
					cells = append(cells, extractor.NewRectangle(x1, y2, x2-x1, y1-y2))
				}
			}
		}
	}

	return cf.minimalCells(cells)
}

// coversSpan reports whether ruling covers [lo, hi] along its own axis,
// within tolerance.
func (cf *CellFinder) coversSpan(ruling *RulingLine, lo, hi float64, horizontal bool) bool {
	var rLo, rHi float64
	if horizontal {
		rLo, rHi = math.Min(ruling.Start.X, ruling.End.X), math.Max(ruling.Start.X, ruling.End.X)
	} else {
		rLo, rHi = math.Min(ruling.Start.Y, ruling.End.Y), math.Max(ruling.Start.Y, ruling.End.Y)
	}
	return rLo <= lo+cf.tolerance && rHi >= hi-cf.tolerance
}

// minimalCells drops any cell that contains another cell's top-left corner
// in its interior or on its top or left edge. A corner equal to the cell's
// own top-left corner does not count.
func (cf *CellFinder) minimalCells(cells []extractor.Rectangle) []extractor.Rectangle {
	var result []extractor.Rectangle
	for i, c := range cells {
		masked := false
		for j, other := range cells {
			if i == j {
				continue
			}
			tlx, tly := other.Left(), other.Top()
			if tlx == c.Left() && tly == c.Top() {
				continue
			}
			if tlx >= c.Left() && tlx < c.Right() && tly <= c.Top() && tly > c.Bottom() {
				masked = true
				break
			}
		}
		if !masked {
			result = append(result, c)
		}
	}
	return result
}
