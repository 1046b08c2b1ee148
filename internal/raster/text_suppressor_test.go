package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextSuppressor_DropsTextObjectAndShowOperators(t *testing.T) {
	content := []byte(`
0 0 0 RG
10 10 m
100 10 l
S
BT
/F1 12 Tf
(Hello) Tj
ET
20 20 m
120 20 l
S
`)
	suppressed := NewTextSuppressor().Suppress(content)

	assert.NotContains(t, string(suppressed), "Tj")
	assert.NotContains(t, string(suppressed), "Tf")
	assert.Contains(t, string(suppressed), "m\n")
	assert.Contains(t, string(suppressed), "S\n")
}

func TestTextSuppressor_DropsTJAndQuoteOperators(t *testing.T) {
	content := []byte(`
BT
[(A) -250 (B)] TJ
(line) '
ET
`)
	suppressed := NewTextSuppressor().Suppress(content)
	assert.Empty(t, suppressed)
}

func TestTextSuppressor_EmptyOnParseFailure(t *testing.T) {
	suppressed := NewTextSuppressor().Suppress([]byte("\x00\x01unterminated ("))
	assert.Nil(t, suppressed)
}

func TestTextSuppressor_NoTextPassesThrough(t *testing.T) {
	content := []byte("10 10 m\n100 10 l\nS\n")
	suppressed := NewTextSuppressor().Suppress(content)

	assert.Contains(t, string(suppressed), "S")
}
