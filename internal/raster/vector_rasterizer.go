package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/coregx/gxpdf/internal/extractor"
)

// VectorFallbackRasterizer paints a page's vector graphics (rulings,
// rectangles, filled paths) onto a grayscale canvas, for pages that carry
// no embedded scan image. It is not a full rendering engine: it draws only
// the stroked/filled primitives the ruling-pixel detector (4.G) needs to
// find edges, at native page-unit resolution, then scales to the target
// DPI with golang.org/x/image/draw.
type VectorFallbackRasterizer struct {
	source PageSource
}

// NewVectorFallbackRasterizer creates a rasterizer backed by source.
func NewVectorFallbackRasterizer(source PageSource) *VectorFallbackRasterizer {
	return &VectorFallbackRasterizer{source: source}
}

// Rasterize paints the page's graphics elements onto a white canvas at
// native resolution, then scales to the requested DPI.
func (r *VectorFallbackRasterizer) Rasterize(dpi int) (*image.Gray, error) {
	w, h := r.source.Width(), r.source.Height()
	if w <= 0 || h <= 0 {
		return nil, errEmptyPage
	}

	native := image.NewGray(image.Rect(0, 0, int(math.Ceil(w)), int(math.Ceil(h))))
	fillWhite(native)

	for _, elem := range r.source.Graphics() {
		drawGraphicsElement(native, elem, h)
	}

	scale := scaleFactor(dpi)
	dstW := int(math.Round(w * scale))
	dstH := int(math.Round(h * scale))
	if dstW < 1 || dstH < 1 {
		return nil, errEmptyPage
	}

	scaled := image.NewGray(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), native, native.Bounds(), draw.Over, nil)
	return scaled, nil
}

func fillWhite(img *image.Gray) {
	for i := range img.Pix {
		img.Pix[i] = 255
	}
}

// drawGraphicsElement draws a single graphics element's outline in black.
// pageHeight flips the PDF's bottom-left origin to the image's top-left.
func drawGraphicsElement(img *image.Gray, elem *extractor.GraphicsElement, pageHeight float64) {
	if elem.Type == extractor.GraphicsTypePath && len(elem.Points) >= 2 {
		for i := 0; i < len(elem.Points)-1; i++ {
			drawLine(img, elem.Points[i], elem.Points[i+1], pageHeight)
		}
		return
	}
	if len(elem.Points) < 2 {
		return
	}
	// Line and Rectangle graphics elements are both stored as a sequence of
	// points describing their outline; draw each consecutive segment.
	for i := 0; i < len(elem.Points)-1; i++ {
		drawLine(img, elem.Points[i], elem.Points[i+1], pageHeight)
	}
}

// drawLine rasterizes a straight segment with Bresenham's algorithm.
func drawLine(img *image.Gray, p1, p2 extractor.Point, pageHeight float64) {
	x0, y0 := int(math.Round(p1.X)), int(math.Round(pageHeight-p1.Y))
	x1, y1 := int(math.Round(p2.X)), int(math.Round(pageHeight-p2.Y))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	black := color.Gray{Y: 0}
	bounds := img.Bounds()
	for {
		if x0 >= bounds.Min.X && x0 < bounds.Max.X && y0 >= bounds.Min.Y && y0 < bounds.Max.Y {
			img.SetGray(x0, y0, black)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
