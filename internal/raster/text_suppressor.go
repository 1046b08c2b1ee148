package raster

import (
	"bytes"
	"fmt"

	"github.com/coregx/gxpdf/internal/extractor"
)

// textShowingOperators are dropped wholesale: they paint glyphs, not
// rulings, and glyph strokes can otherwise masquerade as short rulings
// during vertical-edge detection.
var textShowingOperators = map[string]bool{
	"Tj": true,
	"TJ": true,
	"'":  true,
	"\"": true,
}

// TextSuppressor rewrites a content stream, removing text-showing
// operators and BT...ET text-object brackets, so the vector-to-raster
// fallback rasterizer paints only non-text graphics.
type TextSuppressor struct{}

// NewTextSuppressor creates a TextSuppressor.
func NewTextSuppressor() *TextSuppressor {
	return &TextSuppressor{}
}

// Suppress parses content, drops text-object operators, and re-serializes
// the remaining operators in order. A parse failure is treated the same as
// a rasterization failure: the caller gets an empty stream, not an error
// that aborts the page.
func (s *TextSuppressor) Suppress(content []byte) []byte {
	cp := extractor.NewContentParser(content)
	ops, err := cp.ParseOperators()
	if err != nil {
		return nil
	}

	var buf bytes.Buffer
	inTextObject := false
	for _, op := range ops {
		switch op.Name {
		case "BT":
			inTextObject = true
			continue
		case "ET":
			inTextObject = false
			continue
		}
		if inTextObject || textShowingOperators[op.Name] {
			continue
		}
		writeOperator(&buf, op)
	}
	return buf.Bytes()
}

// writeOperator serializes an operator's operands followed by its name,
// the inverse of ContentParser's tokenization.
func writeOperator(buf *bytes.Buffer, op *extractor.Operator) {
	for _, operand := range op.Operands {
		fmt.Fprintf(buf, "%s ", operand.String())
	}
	buf.WriteString(op.Name)
	buf.WriteByte('\n')
}
