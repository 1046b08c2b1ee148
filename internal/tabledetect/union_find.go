package tabledetect

import "github.com/coregx/gxpdf/internal/extractor"

// unionFind is a simple disjoint-set structure used to collapse overlapping
// regions into a fixed point in a single pass, replacing the historical
// two-nested-passes region merge in column inference (4.C step 5).
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// mergeOverlappingRegions merges every pair of regions whose X-intervals
// overlap into a single bounding-box union, in one union-find pass rather
// than iterating pairwise passes to a fixed point.
func mergeOverlappingRegions(regions []extractor.Rectangle) []extractor.Rectangle {
	n := len(regions)
	if n <= 1 {
		return regions
	}

	uf := newUnionFind(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if regions[i].Left() < regions[j].Right() && regions[j].Left() < regions[i].Right() {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int]extractor.Rectangle)
	for i, r := range regions {
		root := uf.find(i)
		if merged, ok := groups[root]; ok {
			groups[root] = mergeRect(merged, r)
		} else {
			groups[root] = r
		}
	}

	result := make([]extractor.Rectangle, 0, len(groups))
	for _, r := range groups {
		result = append(result, r)
	}
	return result
}

// mergeRect returns the bounding-box union of two rectangles.
func mergeRect(a, b extractor.Rectangle) extractor.Rectangle {
	minX := minF(a.Left(), b.Left())
	minY := minF(a.Bottom(), b.Bottom())
	maxX := maxF(a.Right(), b.Right())
	maxY := maxF(a.Top(), b.Top())
	return extractor.NewRectangle(minX, minY, maxX-minX, maxY-minY)
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
