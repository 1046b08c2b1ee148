package gxpdf

import (
	"github.com/coregx/gxpdf/internal/extractor"
	domaintable "github.com/coregx/gxpdf/internal/models/table"
	"github.com/coregx/gxpdf/internal/raster"
	"github.com/coregx/gxpdf/internal/tabledetect"
)

// Page represents a single page in a PDF document.
type Page struct {
	doc   *Document
	index int
}

// Index returns the page index (0-based).
func (p *Page) Index() int {
	return p.index
}

// Number returns the page number (1-based, for display).
func (p *Page) Number() int {
	return p.index + 1
}

// ExtractText extracts all text from the page.
//
// Returns the text content as a single string.
//
// Example:
//
//	text := page.ExtractText()
//	fmt.Println(text)
func (p *Page) ExtractText() string {
	textExtractor := extractor.NewTextExtractor(p.doc.reader)
	elements, err := textExtractor.ExtractFromPage(p.index)
	if err != nil {
		return ""
	}

	var result string
	for _, elem := range elements {
		result += elem.Text + " "
	}
	return result
}

// ExtractTables extracts all tables from this page.
//
// Example:
//
//	tables := page.ExtractTables()
//	for _, t := range tables {
//	    fmt.Println(t.Rows())
//	}
func (p *Page) ExtractTables() []*Table {
	tables, _ := p.ExtractTablesWithOptions(nil)
	return tables
}

// ExtractTablesWithOptions extracts tables with custom options.
//
// MethodHybrid runs the Nurminen area-detection pipeline (see
// ExtractTablesNurminen). MethodLattice finds the page's ruling-bordered
// cell grid and extracts it as a Spreadsheet table. MethodStream bins text
// into rows and columns by alignment, optionally reinterpreting as a
// Spreadsheet table when rulings are dense (ExtractionOptions.MixedModeEnabled)
// or using caller-supplied column boundaries (ExtractionOptions.VerticalRulingXs).
// MethodAuto tries Lattice first and falls back to Stream if no
// ruling-bordered grid is found.
func (p *Page) ExtractTablesWithOptions(opts *ExtractionOptions) ([]*Table, error) {
	if opts == nil {
		opts = DefaultExtractionOptions()
	}

	if opts.Method == MethodHybrid {
		return p.ExtractTablesNurminen()
	}

	ps, err := newPageSource(p)
	if err != nil {
		return nil, err
	}

	rulings, err := tabledetect.NewDefaultRulingLineDetector().DetectRulingLines(ps.Graphics())
	if err != nil {
		return nil, err
	}
	horizontal, vertical := tabledetect.SplitRulings(rulings)

	switch opts.Method {
	case MethodLattice:
		return p.extractTablesLattice(ps, horizontal, vertical)
	case MethodStream:
		return p.extractTablesStream(ps, opts, horizontal)
	default:
		tables, err := p.extractTablesLattice(ps, horizontal, vertical)
		if err == nil && len(tables) > 0 {
			return tables, nil
		}
		return p.extractTablesStream(ps, opts, horizontal)
	}
}

// extractTablesLattice finds the cell grid bounded by horizontal and
// vertical rulings and extracts it as a single Spreadsheet table
// (4.E/4.F). Returns an empty slice, not an error, when the page has
// fewer than two rulings in either orientation.
func (p *Page) extractTablesLattice(ps *pageSource, horizontal, vertical []*tabledetect.RulingLine) ([]*Table, error) {
	cells := tabledetect.NewCellFinder().FindCells(horizontal, vertical)
	if len(cells) == 0 {
		return nil, nil
	}

	tbl, err := tabledetect.NewSpreadsheetExtractor().Extract(cells, ps.Text())
	if err != nil {
		return nil, err
	}
	tbl.PageNum = p.index

	return []*Table{{internal: tbl}}, nil
}

// extractTablesStream bins the page's text into a row/column matrix using
// inferred or caller-supplied column boundaries (4.C/4.D).
func (p *Page) extractTablesStream(ps *pageSource, opts *ExtractionOptions, horizontal []*tabledetect.RulingLine) ([]*Table, error) {
	streamExtractor := tabledetect.NewStreamExtractor().WithMixedMode(opts.MixedModeEnabled)
	tbl, err := streamExtractor.Extract(
		ps.Text(), horizontal, opts.VerticalRulingXs, ps.Bounds().Left(), ps.Bounds().Right())
	if err != nil {
		return nil, err
	}
	tbl.PageNum = p.index

	return []*Table{{internal: tbl}}, nil
}

// ExtractTablesNurminen detects table areas using ruling-pixel scanning,
// cell clustering, and text-edge alignment (Nurminen's algorithm), then
// extracts each area as a Spreadsheet table if it contains ruling-defined
// cells, or a Stream table from its text otherwise.
func (p *Page) ExtractTablesNurminen() ([]*Table, error) {
	ps, err := newPageSource(p)
	if err != nil {
		return nil, err
	}

	detector := tabledetect.NewNurminenDetector(raster.NewRulingPixelDetector())
	areas, result, err := detector.Detect(ps)
	if err != nil {
		return nil, err
	}

	var tables []*Table
	for _, area := range areas {
		var cellsInArea []extractor.Rectangle
		for _, c := range result.Cells {
			if area.ContainsRect(c) {
				cellsInArea = append(cellsInArea, c)
			}
		}

		var tbl *domaintable.Table
		if len(cellsInArea) > 0 {
			tbl, err = tabledetect.NewSpreadsheetExtractor().Extract(cellsInArea, ps.Text())
		} else {
			textInArea := textElementsInArea(ps.Text(), area)
			horizontalInArea := horizontalRulingsInArea(result.Horizontal, area)
			tbl, err = tabledetect.NewStreamExtractor().Extract(
				textInArea, horizontalInArea, nil, area.Left(), area.Right())
		}
		if err != nil || tbl == nil {
			continue
		}

		tbl.PageNum = p.index
		tables = append(tables, &Table{internal: tbl})
	}

	return tables, nil
}

// textElementsInArea returns the text elements whose center point falls
// within area.
func textElementsInArea(elements []*extractor.TextElement, area extractor.Rectangle) []*extractor.TextElement {
	var result []*extractor.TextElement
	for _, e := range elements {
		if area.Contains(e.CenterX(), e.CenterY()) {
			result = append(result, e)
		}
	}
	return result
}

// horizontalRulingsInArea returns the horizontal rulings whose Y falls
// within area's vertical span.
func horizontalRulingsInArea(rulings []*tabledetect.RulingLine, area extractor.Rectangle) []*tabledetect.RulingLine {
	var result []*tabledetect.RulingLine
	for _, r := range rulings {
		if r.Start.Y >= area.Bottom() && r.Start.Y <= area.Top() {
			result = append(result, r)
		}
	}
	return result
}

// GetImages extracts all images from this page.
//
// Returns all images found on the page as a slice.
//
// Example:
//
//	images := page.GetImages()
//	for i, img := range images {
//	    fmt.Printf("Image %d: %dx%d\n", i, img.Width(), img.Height())
//	    img.SaveToFile(fmt.Sprintf("page%d_image%d.jpg", page.Number(), i))
//	}
func (p *Page) GetImages() []*Image {
	images, _ := p.GetImagesWithError()
	return images
}

// GetImagesWithError extracts all images from this page, returning any errors.
//
// Use this when you need error handling for image extraction.
func (p *Page) GetImagesWithError() ([]*Image, error) {
	imageExtractor := extractor.NewImageExtractor(p.doc.reader)
	internalImages, err := imageExtractor.ExtractFromPage(p.index)
	if err != nil {
		return nil, err
	}

	// Wrap internal images in public API
	images := make([]*Image, len(internalImages))
	for i, internal := range internalImages {
		images[i] = &Image{internal: internal}
	}

	return images, nil
}
