// Package raster rasterizes PDF page content to grayscale images and
// detects ruling lines from the resulting pixels (4.G).
//
// This is the Infrastructure layer for the table-area detector: it backs
// the "Rasterizer" and "text-suppression service" collaborators described
// by the detection core, using golang.org/x/image for the scaling the
// standard library doesn't provide.
package raster

import (
	"fmt"
	"image"

	"github.com/coregx/gxpdf/internal/extractor"
)

// DefaultDPI is the rasterization resolution all ruling-detector thresholds
// presume. The contract is 2 image pixels per page unit along each axis.
const DefaultDPI = 144

// Rasterizer produces a grayscale raster of a page at a fixed DPI.
type Rasterizer interface {
	// Rasterize renders the page to a grayscale image at the given DPI.
	Rasterize(dpi int) (*image.Gray, error)
}

// PageSource is the minimal view of a page the rasterizer needs: its
// dimensions and its vector graphics, for pages without a usable embedded
// scan image.
type PageSource interface {
	Width() float64
	Height() float64
	Graphics() []*extractor.GraphicsElement
	ImageXObjects() ([]ImageXObject, error)
}

// ImageXObject is a decoded raster image embedded in the page content,
// positioned in page coordinates.
type ImageXObject struct {
	Image image.Image
	Rect  extractor.Rectangle // placement in page coordinates
}

// scaleFactor converts page points to raster pixels at the given DPI.
// PDF units are 1/72 inch; the rasterizer contract fixes 2 image pixels per
// page unit at 144 DPI (144/72 == 2).
func scaleFactor(dpi int) float64 {
	return float64(dpi) / 72.0
}

// errEmptyPage is returned when a page has no renderable content.
var errEmptyPage = fmt.Errorf("raster: page has no renderable content")
