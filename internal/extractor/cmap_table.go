package extractor

import (
	"github.com/coregx/gxpdf/internal/parser"
)

// CMapTable holds a ToUnicode CMap's glyph-ID to Unicode mapping.
//
// PDF embedded fonts map glyph codes to Unicode via a ToUnicode CMap stream
// (Section 9.10.3), a PostScript-like program built from bfchar and bfrange
// operators. We only need the resulting code -> rune table, not the program
// itself, so parsing reduces to building this map.
type CMapTable struct {
	name     string
	mappings map[uint16]rune
}

// NewCMapTable creates an empty CMapTable with the given name (typically the
// CMap's /CMapName or the font's BaseFont, used only for diagnostics).
func NewCMapTable(name string) *CMapTable {
	return &CMapTable{
		name:     name,
		mappings: make(map[uint16]rune),
	}
}

// AddMapping records that glyph code maps to the given Unicode rune.
func (c *CMapTable) AddMapping(code uint16, r rune) {
	c.mappings[code] = r
}

// AddRange records a bfrange: every code in [low, high] maps to consecutive
// runes starting at startRune.
func (c *CMapTable) AddRange(low, high uint16, startRune rune) {
	for code := low; code <= high; code++ {
		c.mappings[code] = startRune + rune(code-low)
	}
}

// GetUnicode looks up the Unicode rune for a glyph code.
func (c *CMapTable) GetUnicode(code uint16) (rune, bool) {
	r, ok := c.mappings[code]
	return r, ok
}

// Name returns the CMap's name.
func (c *CMapTable) Name() string {
	return c.name
}

// Len returns the number of glyph mappings in the table.
func (c *CMapTable) Len() int {
	return len(c.mappings)
}

// ParseToUnicodeCMap builds a CMapTable from a ToUnicode CMap stream's
// decoded content. A ToUnicode CMap is a small PostScript program built
// from bfchar and bfrange blocks:
//
//	2 beginbfchar
//	<01> <0412>
//	<02> <044B>
//	endbfchar
//	1 beginbfrange
//	<03> <05> <0430>
//	endbfrange
//
// We reuse ContentParser to tokenize it: operands accumulate on the stack
// between keywords the same way they do in a page content stream, so the
// hex strings preceding "endbfchar"/"endbfrange" land in that operator's
// Operands in source order.
func ParseToUnicodeCMap(content []byte, name string) *CMapTable {
	table := NewCMapTable(name)

	cp := NewContentParser(content)
	ops, err := cp.ParseOperators()
	if err != nil {
		return table
	}

	for _, op := range ops {
		switch op.Name {
		case "endbfchar":
			for i := 0; i+1 < len(op.Operands); i += 2 {
				code, ok1 := hexOperandCode(op.Operands[i])
				r, ok2 := hexOperandRune(op.Operands[i+1])
				if ok1 && ok2 {
					table.AddMapping(code, r)
				}
			}

		case "endbfrange":
			for i := 0; i+2 < len(op.Operands); i += 3 {
				lo, ok1 := hexOperandCode(op.Operands[i])
				hi, ok2 := hexOperandCode(op.Operands[i+1])
				start, ok3 := hexOperandRune(op.Operands[i+2])
				if ok1 && ok2 && ok3 {
					table.AddRange(lo, hi, start)
				}
			}
		}
	}

	return table
}

// hexOperandCode reads a hex-string operand as a big-endian glyph code.
func hexOperandCode(obj parser.PdfObject) (uint16, bool) {
	s, ok := obj.(*parser.String)
	if !ok {
		return 0, false
	}
	b := s.Bytes()
	switch len(b) {
	case 1:
		return uint16(b[0]), true
	case 2:
		return uint16(b[0])<<8 | uint16(b[1]), true
	default:
		return 0, false
	}
}

// hexOperandRune reads a hex-string operand as the first Unicode code point
// it encodes (bfrange/bfchar destination values are UTF-16BE).
func hexOperandRune(obj parser.PdfObject) (rune, bool) {
	s, ok := obj.(*parser.String)
	if !ok {
		return 0, false
	}
	b := s.Bytes()
	if len(b) < 2 {
		if len(b) == 1 {
			return rune(b[0]), true
		}
		return 0, false
	}
	return rune(uint16(b[0])<<8 | uint16(b[1])), true
}
