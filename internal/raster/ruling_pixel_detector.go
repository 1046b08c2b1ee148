package raster

import (
	"image"
	"math"

	"github.com/coregx/gxpdf/internal/extractor"
	"github.com/coregx/gxpdf/internal/tabledetect"
)

// Tunable constants for pixel-based ruling detection (4.G), named exactly
// as the detection core's configuration table names them.
const (
	IntensityThreshold = 25  // grayscale jump that marks a candidate edge
	HMinWidth          = 50  // minimum horizontal run length, in raster pixels
	VMinHeight         = 10  // minimum vertical run length, in raster pixels
	PointSnap          = 8   // endpoint snap tolerance, in raster pixels
	CollapseExpansion  = 5.0 // gap-bridging expansion for CollapseOrientedRulings
)

// RulingPixelDetector extracts horizontal and vertical rulings from a
// grayscale raster by scanning for sustained grayscale jumps.
type RulingPixelDetector struct{}

// NewRulingPixelDetector creates a RulingPixelDetector.
func NewRulingPixelDetector() *RulingPixelDetector {
	return &RulingPixelDetector{}
}

// DetectHorizontal finds horizontal rulings in image coordinates, before
// snap/collapse/halving. img is the already-text-suppressed raster.
func (d *RulingPixelDetector) DetectHorizontal(img *image.Gray) []*tabledetect.RulingLine {
	bounds := img.Bounds()
	covered := make([]bool, bounds.Dx()*bounds.Max.Y) // [x*h+y] visited starts

	idx := func(x, y int) int { return (x-bounds.Min.X)*bounds.Max.Y + y }

	var rulings []*tabledetect.RulingLine
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		for y := bounds.Min.Y + 1; y < bounds.Max.Y; y++ {
			if covered[idx(x, y)] {
				continue
			}
			if !jumpExceeds(img, x, y, x, y-1) {
				continue
			}

			runEnd := x
			for lineX := x; lineX < bounds.Max.X; lineX++ {
				if !jumpExceeds(img, lineX, y, lineX, y-1) {
					break
				}
				if !colorConsistent(img, lineX, y, x, y) {
					break
				}
				covered[idx(lineX, y)] = true
				runEnd = lineX
			}

			if runEnd-x >= HMinWidth {
				rulings = append(rulings, tabledetect.NewRulingLine(
					extractor.NewPoint(float64(x), float64(y)),
					extractor.NewPoint(float64(runEnd), float64(y)),
				))
			}
		}
	}
	return rulings
}

// DetectVertical finds vertical rulings; it is the transpose of
// DetectHorizontal, scanning rows instead of columns.
func (d *RulingPixelDetector) DetectVertical(img *image.Gray) []*tabledetect.RulingLine {
	bounds := img.Bounds()
	covered := make([]bool, bounds.Dy()*bounds.Max.X)
	idx := func(x, y int) int { return (y-bounds.Min.Y)*bounds.Max.X + x }

	var rulings []*tabledetect.RulingLine
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X; x++ {
			if covered[idx(x, y)] {
				continue
			}
			if !jumpExceeds(img, x, y, x-1, y) {
				continue
			}

			runEnd := y
			for lineY := y; lineY < bounds.Max.Y; lineY++ {
				if !jumpExceeds(img, x, lineY, x-1, lineY) {
					break
				}
				if !colorConsistent(img, x, lineY, x, y) {
					break
				}
				covered[idx(x, lineY)] = true
				runEnd = lineY
			}

			if runEnd-y >= VMinHeight {
				rulings = append(rulings, tabledetect.NewRulingLine(
					extractor.NewPoint(float64(x), float64(y)),
					extractor.NewPoint(float64(x), float64(runEnd)),
				))
			}
		}
	}
	return rulings
}

// Detect runs the full pipeline: horizontal + vertical scan, snap,
// normalize, drop obliques, collapse, then halve coordinates back to page
// space (the raster is 2x page units at 144 DPI).
func (d *RulingPixelDetector) Detect(img *image.Gray) (horizontal, vertical []*tabledetect.RulingLine) {
	return d.DetectSeparate(img, img)
}

// DetectSeparate runs the horizontal scan against hImg and the vertical
// scan against vImg, then applies the shared post-processing pass to the
// combined set. The detection core uses this to scan vertical rulings
// against a text-suppressed raster while keeping the horizontal scan
// against the unsuppressed one (4.G).
func (d *RulingPixelDetector) DetectSeparate(hImg, vImg *image.Gray) (horizontal, vertical []*tabledetect.RulingLine) {
	h := d.DetectHorizontal(hImg)
	v := d.DetectVertical(vImg)

	all := make([]*tabledetect.RulingLine, 0, len(h)+len(v))
	all = append(all, h...)
	all = append(all, v...)

	for _, r := range all {
		r.Snap(PointSnap)
		r.Normalize()
	}

	var kept []*tabledetect.RulingLine
	for _, r := range all {
		if !r.IsOblique(1.0) {
			kept = append(kept, r)
		}
	}

	kept = tabledetect.CollapseOrientedRulings(kept, CollapseExpansion)

	for _, r := range kept {
		r.Start.X /= 2
		r.Start.Y /= 2
		r.End.X /= 2
		r.End.Y /= 2
		if r.IsHorizontal {
			horizontal = append(horizontal, r)
		} else {
			vertical = append(vertical, r)
		}
	}
	return horizontal, vertical
}

// jumpExceeds reports whether the grayscale delta between two pixels
// exceeds IntensityThreshold. Out-of-bounds pixels are treated as white.
func jumpExceeds(img *image.Gray, x1, y1, x2, y2 int) bool {
	return math.Abs(float64(grayAt(img, x1, y1))-float64(grayAt(img, x2, y2))) > IntensityThreshold
}

// colorConsistent checks the in-line color at (x,y) matches the run's
// starting color (ox,oy) within the same threshold, so a ruling doesn't
// wander across an unrelated dark region.
func colorConsistent(img *image.Gray, x, y, ox, oy int) bool {
	return math.Abs(float64(grayAt(img, x, y))-float64(grayAt(img, ox, oy))) <= IntensityThreshold
}

func grayAt(img *image.Gray, x, y int) uint8 {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return 255
	}
	return img.GrayAt(x, y).Y
}
