package extractor

import (
	"fmt"

	"github.com/coregx/gxpdf/internal/encoding"
	"github.com/coregx/gxpdf/internal/parser"
)

// averageCharWidthFactor estimates glyph width as a fraction of font size
// when no embedded /Widths array is consulted. 0.5em is a reasonable
// average across common Latin text faces and is only used to size
// TextElement bounding boxes for layout analysis, not for rendering.
const averageCharWidthFactor = 0.5

// TextExtractor extracts positioned text elements from PDF content streams.
//
// It tracks the text state (Section 9.4) across text-positioning and
// text-showing operators and resolves each page's fonts well enough to
// decode glyph bytes to Unicode, using a ToUnicode CMap when the font
// embeds one.
type TextExtractor struct {
	reader *parser.Reader
	fonts  map[string]*resolvedFont
}

// resolvedFont is a page-resource font name resolved to a decoder.
type resolvedFont struct {
	decoder *FontDecoder
}

// NewTextExtractor creates a new TextExtractor for the given PDF reader.
func NewTextExtractor(reader *parser.Reader) *TextExtractor {
	return &TextExtractor{
		reader: reader,
		fonts:  make(map[string]*resolvedFont),
	}
}

// ExtractFromDocument extracts all text elements from every page.
func (te *TextExtractor) ExtractFromDocument() ([]*TextElement, error) {
	pageCount, err := te.reader.GetPageCount()
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	var all []*TextElement
	for i := 0; i < pageCount; i++ {
		elements, err := te.ExtractFromPage(i)
		if err != nil {
			continue
		}
		all = append(all, elements...)
	}
	return all, nil
}

// ExtractFromPage extracts all text elements from the given page.
//
// Page numbers are 0-based.
func (te *TextExtractor) ExtractFromPage(pageNum int) ([]*TextElement, error) {
	page, err := te.reader.GetPage(pageNum)
	if err != nil {
		return nil, fmt.Errorf("failed to get page %d: %w", pageNum, err)
	}

	content, err := te.getPageContent(page)
	if err != nil {
		return nil, fmt.Errorf("failed to get page content: %w", err)
	}
	if len(content) == 0 {
		return []*TextElement{}, nil
	}

	// Fonts are reused across calls to amortize ToUnicode CMap parsing,
	// but resource names are only unique within a page's Resources dict.
	te.fonts = make(map[string]*resolvedFont)

	contentParser := NewContentParser(content)
	operators, err := contentParser.ParseOperators()
	if err != nil {
		return nil, fmt.Errorf("failed to parse content stream: %w", err)
	}

	run := &textRun{
		extractor: te,
		page:      page,
		state:     NewTextState(),
	}
	for _, op := range operators {
		run.process(op)
	}

	return run.elements, nil
}

// textRun accumulates TextElements while walking a page's operator list.
type textRun struct {
	extractor *TextExtractor
	page      *parser.Dictionary
	state     *TextState
	font      *resolvedFont
	elements  []*TextElement
}

func (r *textRun) process(op *Operator) {
	switch op.Name {
	case "BT":
		r.state.Reset()

	case "ET":
		// Text state parameters survive ET; only the matrices reset on BT.

	case "Tf":
		if len(op.Operands) >= 2 {
			name, _ := op.Operands[0].(*parser.Name)
			size := getNumber(op.Operands[1])
			if name != nil && size != nil {
				r.state.SetFont(name.Value(), *size)
				r.font = r.extractor.resolveFont(r.page, name.Value())
			}
		}

	case "Tc":
		if len(op.Operands) >= 1 {
			if v := getNumber(op.Operands[0]); v != nil {
				r.state.CharSpace = *v
			}
		}

	case "Tw":
		if len(op.Operands) >= 1 {
			if v := getNumber(op.Operands[0]); v != nil {
				r.state.WordSpace = *v
			}
		}

	case "Tz":
		if len(op.Operands) >= 1 {
			if v := getNumber(op.Operands[0]); v != nil {
				r.state.HorizScale = *v
			}
		}

	case "TL":
		if len(op.Operands) >= 1 {
			if v := getNumber(op.Operands[0]); v != nil {
				r.state.Leading = *v
			}
		}

	case "Ts":
		if len(op.Operands) >= 1 {
			if v := getNumber(op.Operands[0]); v != nil {
				r.state.Rise = *v
			}
		}

	case "Td":
		if len(op.Operands) >= 2 {
			tx, ty := getNumber(op.Operands[0]), getNumber(op.Operands[1])
			if tx != nil && ty != nil {
				r.state.Translate(*tx, *ty)
			}
		}

	case "TD":
		if len(op.Operands) >= 2 {
			tx, ty := getNumber(op.Operands[0]), getNumber(op.Operands[1])
			if tx != nil && ty != nil {
				r.state.TranslateSetLeading(*tx, *ty)
			}
		}

	case "T*":
		r.state.MoveToNextLine()

	case "Tm":
		if len(op.Operands) >= 6 {
			vals := make([]float64, 6)
			ok := true
			for i := 0; i < 6; i++ {
				v := getNumber(op.Operands[i])
				if v == nil {
					ok = false
					break
				}
				vals[i] = *v
			}
			if ok {
				r.state.SetTextMatrix(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
			}
		}

	case "Tj":
		if len(op.Operands) >= 1 {
			r.showText(op.Operands[0])
		}

	case "'":
		if len(op.Operands) >= 1 {
			r.state.MoveToNextLine()
			r.showText(op.Operands[0])
		}

	case "\"":
		if len(op.Operands) >= 3 {
			aw, ac := getNumber(op.Operands[0]), getNumber(op.Operands[1])
			if aw != nil && ac != nil {
				r.state.WordSpace = *aw
				r.state.CharSpace = *ac
			}
			r.state.MoveToNextLine()
			r.showText(op.Operands[2])
		}

	case "TJ":
		if len(op.Operands) >= 1 {
			r.showTextArray(op.Operands[0])
		}
	}
}

// showTextArray handles the TJ operator: an array alternating strings and
// numeric position adjustments (in thousandths of an em, negative moves
// right per Section 9.4.3).
func (r *textRun) showTextArray(obj parser.PdfObject) {
	arr, ok := obj.(*parser.Array)
	if !ok {
		return
	}
	for i := 0; i < arr.Len(); i++ {
		elem := arr.Get(i)
		switch v := elem.(type) {
		case *parser.String:
			r.showText(v)
		case *parser.Integer:
			r.adjustPosition(float64(v.Int()))
		case *parser.Real:
			r.adjustPosition(v.Value())
		}
	}
}

func (r *textRun) adjustPosition(thousandths float64) {
	dx := -thousandths / 1000.0 * r.state.FontSize * (r.state.HorizScale / 100.0)
	r.state.AdvanceX(dx)
}

// showText decodes a string operand, emits a TextElement at the current
// text position, and advances the text matrix past it.
func (r *textRun) showText(obj parser.PdfObject) {
	str, ok := obj.(*parser.String)
	if !ok {
		return
	}

	raw := str.Bytes()
	text := r.decode(raw)
	if text == "" {
		return
	}

	fontSize := r.state.FontSize
	scale := r.state.HorizScale / 100.0
	width := float64(len([]rune(text))) * fontSize * averageCharWidthFactor * scale
	height := fontSize
	if height <= 0 {
		height = 1
	}

	x, y := r.state.CurrentX, r.state.CurrentY+r.state.Rise
	elem := NewTextElement(text, x, y, width, height, r.state.FontName, fontSize)
	r.elements = append(r.elements, elem)

	// Advance past the shown text plus any word/character spacing, the
	// same way AdvanceX is used by the TJ path above.
	advance := width
	advance += r.state.CharSpace * float64(len([]rune(text))) * scale
	if hasSpace(raw) {
		advance += r.state.WordSpace * scale
	}
	r.state.AdvanceX(advance)
}

func (r *textRun) decode(raw []byte) string {
	if r.font != nil && r.font.decoder != nil {
		return r.font.decoder.DecodeString(raw)
	}
	return string(raw)
}

func hasSpace(raw []byte) bool {
	for _, b := range raw {
		if b == ' ' {
			return true
		}
	}
	return false
}

// resolveFont looks up resourceName in the page's /Resources /Font
// dictionary and builds a FontDecoder for it, caching the result for the
// rest of the page.
func (te *TextExtractor) resolveFont(page *parser.Dictionary, resourceName string) *resolvedFont {
	if cached, ok := te.fonts[resourceName]; ok {
		return cached
	}

	font := &resolvedFont{decoder: NewFontDecoder(nil, "", false)}
	te.fonts[resourceName] = font

	fontDict := te.lookupFontDict(page, resourceName)
	if fontDict == nil {
		return font
	}

	var encodingName string
	if name, ok := te.resolveObject(fontDict.Get("Encoding")).(*parser.Name); ok {
		encodingName = name.Value()
	}

	var cmap *CMapTable
	if stream, ok := te.resolveObject(fontDict.Get("ToUnicode")).(*parser.Stream); ok {
		if decoded, err := te.decodeStream(stream); err == nil {
			cmap = ParseToUnicodeCMap(decoded, resourceName)
		}
	}

	use2Byte := false
	if subtype, ok := te.resolveObject(fontDict.Get("Subtype")).(*parser.Name); ok {
		use2Byte = subtype.Value() == "Type0"
	}

	font.decoder = NewFontDecoder(cmap, encodingName, use2Byte)
	return font
}

// lookupFontDict resolves /Resources /Font /<resourceName> for a page.
func (te *TextExtractor) lookupFontDict(page *parser.Dictionary, resourceName string) *parser.Dictionary {
	resources, ok := te.resolveObject(page.Get("Resources")).(*parser.Dictionary)
	if !ok {
		return nil
	}
	fonts, ok := te.resolveObject(resources.Get("Font")).(*parser.Dictionary)
	if !ok {
		return nil
	}
	dict, ok := te.resolveObject(fonts.Get(resourceName)).(*parser.Dictionary)
	if !ok {
		return nil
	}
	return dict
}

// resolveObject follows a single indirect reference, if obj is one.
func (te *TextExtractor) resolveObject(obj parser.PdfObject) parser.PdfObject {
	if obj == nil {
		return nil
	}
	ref, ok := obj.(*parser.IndirectReference)
	if !ok {
		return obj
	}
	resolved, err := te.reader.GetObject(ref.Number)
	if err != nil {
		return nil
	}
	return resolved
}

// getPageContent retrieves and decodes the content stream(s) for a page.
//
// This is the same logic as graphics extraction.
//
//nolint:dupl // Similar to GraphicsParser.getPageContent, refactoring later
func (te *TextExtractor) getPageContent(page *parser.Dictionary) ([]byte, error) {
	contentsObj := page.Get("Contents")
	if contentsObj == nil {
		return []byte{}, nil
	}

	if ref, ok := contentsObj.(*parser.IndirectReference); ok {
		resolved, err := te.reader.GetObject(ref.Number)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve contents reference: %w", err)
		}
		contentsObj = resolved
	}

	var allContent []byte

	switch obj := contentsObj.(type) {
	case *parser.Stream:
		content, err := te.decodeStream(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to decode content stream: %w", err)
		}
		allContent = content

	case *parser.Array:
		for i := 0; i < obj.Len(); i++ {
			streamRef := obj.Get(i)
			if streamRef == nil {
				continue
			}
			if ref, ok := streamRef.(*parser.IndirectReference); ok {
				resolved, err := te.reader.GetObject(ref.Number)
				if err != nil {
					continue
				}
				streamRef = resolved
			}
			if stream, ok := streamRef.(*parser.Stream); ok {
				content, err := te.decodeStream(stream)
				if err != nil {
					continue
				}
				allContent = append(allContent, content...)
				allContent = append(allContent, ' ')
			}
		}

	default:
		return nil, fmt.Errorf("unexpected Contents type: %T", obj)
	}

	return allContent, nil
}

// decodeStream decodes a PDF stream based on its filters.
//
//nolint:dupl // Similar to GraphicsParser.decodeStream, refactoring later
func (te *TextExtractor) decodeStream(stream *parser.Stream) ([]byte, error) {
	filterObj := stream.Dictionary().Get("Filter")
	if filterObj == nil {
		return stream.Content(), nil
	}

	var filterName string
	if name, ok := filterObj.(*parser.Name); ok {
		filterName = name.Value()
	} else if arr, ok := filterObj.(*parser.Array); ok {
		if arr.Len() > 0 {
			if name, ok := arr.Get(0).(*parser.Name); ok {
				filterName = name.Value()
			}
		}
	}

	switch filterName {
	case "FlateDecode":
		return te.decodeFlateDecode(stream.Content())
	case "":
		return stream.Content(), nil
	default:
		return stream.Content(), nil
	}
}

// decodeFlateDecode inflates zlib/Flate-compressed stream content.
func (te *TextExtractor) decodeFlateDecode(data []byte) ([]byte, error) {
	return encoding.NewFlateDecoder().Decode(data)
}

// getNumber extracts a float64 from a PdfObject if it is numeric.
func getNumber(obj parser.PdfObject) *float64 {
	switch v := obj.(type) {
	case *parser.Integer:
		f := float64(v.Int())
		return &f
	case *parser.Real:
		f := v.Value()
		return &f
	default:
		return nil
	}
}
