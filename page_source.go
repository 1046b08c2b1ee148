package gxpdf

import (
	"image"

	"github.com/coregx/gxpdf/internal/extractor"
	"github.com/coregx/gxpdf/internal/parser"
	"github.com/coregx/gxpdf/internal/raster"
)

// defaultPageWidth and defaultPageHeight are the US Letter fallback used
// when a page's MediaBox can't be resolved.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// pageSource adapts a Page to the detection core's collaborator contracts:
// tabledetect.PageSource (text + two renderings of the raster) and
// internal/raster.PageSource (geometry + vector graphics for the
// vector-fallback rasterizer).
type pageSource struct {
	reader     *parser.Reader
	pageIndex  int
	width      float64
	height     float64
	textCache  []*extractor.TextElement
	graphCache []*extractor.GraphicsElement
}

// newPageSource builds a pageSource for p, eagerly extracting text and
// vector graphics (the same APIs the teacher's lattice/stream pipeline
// already uses).
func newPageSource(p *Page) (*pageSource, error) {
	textExtractor := extractor.NewTextExtractor(p.doc.reader)
	text, err := textExtractor.ExtractFromPage(p.index)
	if err != nil {
		return nil, err
	}

	gp := extractor.NewGraphicsParser(p.doc.reader)
	graphics, err := gp.ParseFromPage(p.index)
	if err != nil {
		return nil, err
	}

	w, h := pageDimensions(p.doc.reader, p.index)

	return &pageSource{
		reader:     p.doc.reader,
		pageIndex:  p.index,
		width:      w,
		height:     h,
		textCache:  text,
		graphCache: graphics,
	}, nil
}

func (ps *pageSource) Text() []*extractor.TextElement          { return ps.textCache }
func (ps *pageSource) Graphics() []*extractor.GraphicsElement  { return ps.graphCache }
func (ps *pageSource) Width() float64                          { return ps.width }
func (ps *pageSource) Height() float64                         { return ps.height }
func (ps *pageSource) ImageXObjects() ([]raster.ImageXObject, error) { return nil, nil }

// Bounds returns the page's bounding rectangle in page coordinates.
func (ps *pageSource) Bounds() extractor.Rectangle {
	return extractor.NewRectangle(0, 0, ps.width, ps.height)
}

// TextBounds returns the bounding box of all text on the page.
func (ps *pageSource) TextBounds() extractor.Rectangle {
	if len(ps.textCache) == 0 {
		return extractor.Rectangle{}
	}
	minX, minY := ps.textCache[0].Left(), ps.textCache[0].Bottom()
	maxX, maxY := ps.textCache[0].Right(), ps.textCache[0].Top()
	for _, t := range ps.textCache[1:] {
		minX = minF(minX, t.Left())
		minY = minF(minY, t.Bottom())
		maxX = maxF(maxX, t.Right())
		maxY = maxF(maxY, t.Top())
	}
	return extractor.NewRectangle(minX, minY, maxX-minX, maxY-minY)
}

// Rasterize paints the page's vector graphics onto a grayscale canvas at
// the given DPI, via the vector-fallback rasterizer.
func (ps *pageSource) Rasterize(dpi int) (*image.Gray, error) {
	return raster.NewVectorFallbackRasterizer(ps).Rasterize(dpi)
}

// RasterizeTextSuppressed rewrites the page's content stream to drop text
// operators, re-parses the resulting graphics, and rasterizes those. Used
// by the detection core's vertical-ruling pass (4.G) so glyph strokes
// don't masquerade as rulings. Falls back to the unsuppressed raster if
// either step fails.
func (ps *pageSource) RasterizeTextSuppressed(dpi int) (*image.Gray, error) {
	gp := extractor.NewGraphicsParser(ps.reader)
	raw, err := gp.PageContent(ps.pageIndex)
	if err != nil {
		return ps.Rasterize(dpi)
	}

	suppressed := raster.NewTextSuppressor().Suppress(raw)
	if suppressed == nil {
		return ps.Rasterize(dpi)
	}

	graphics, err := gp.ParseContent(suppressed)
	if err != nil {
		return ps.Rasterize(dpi)
	}

	shim := &pageSource{width: ps.width, height: ps.height, graphCache: graphics}
	return raster.NewVectorFallbackRasterizer(shim).Rasterize(dpi)
}

// pageDimensions resolves a page's width/height from its MediaBox,
// falling back to US Letter when absent or malformed.
func pageDimensions(r *parser.Reader, index int) (float64, float64) {
	page, err := r.GetPage(index)
	if err != nil {
		return defaultPageWidth, defaultPageHeight
	}
	box := page.GetArray("MediaBox")
	if box == nil || box.Len() < 4 {
		return defaultPageWidth, defaultPageHeight
	}

	x0 := numberValue(box.Get(0))
	y0 := numberValue(box.Get(1))
	x1 := numberValue(box.Get(2))
	y1 := numberValue(box.Get(3))

	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return defaultPageWidth, defaultPageHeight
	}
	return w, h
}

func numberValue(obj parser.PdfObject) float64 {
	switch v := obj.(type) {
	case *parser.Real:
		return v.Value()
	case *parser.Integer:
		return float64(v.Int())
	default:
		return 0
	}
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
