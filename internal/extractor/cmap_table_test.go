package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCMapTable_AddMappingAndGet(t *testing.T) {
	cmap := NewCMapTable("Test")
	cmap.AddMapping(0x01, 'A')

	r, ok := cmap.GetUnicode(0x01)
	assert.True(t, ok)
	assert.Equal(t, 'A', r)

	_, ok = cmap.GetUnicode(0x02)
	assert.False(t, ok)

	assert.Equal(t, "Test", cmap.Name())
	assert.Equal(t, 1, cmap.Len())
}

func TestCMapTable_AddRange(t *testing.T) {
	cmap := NewCMapTable("Test")
	cmap.AddRange(0x10, 0x12, 'a')

	r0, _ := cmap.GetUnicode(0x10)
	r1, _ := cmap.GetUnicode(0x11)
	r2, _ := cmap.GetUnicode(0x12)
	assert.Equal(t, 'a', r0)
	assert.Equal(t, 'b', r1)
	assert.Equal(t, 'c', r2)
	assert.Equal(t, 3, cmap.Len())
}

func TestParseToUnicodeCMap_BfChar(t *testing.T) {
	content := []byte("2 beginbfchar\n<01> <0041>\n<02> <0042>\nendbfchar\n")

	cmap := ParseToUnicodeCMap(content, "Test")

	r1, ok1 := cmap.GetUnicode(0x01)
	r2, ok2 := cmap.GetUnicode(0x02)
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, 'A', r1)
	assert.Equal(t, 'B', r2)
}

func TestParseToUnicodeCMap_BfRange(t *testing.T) {
	content := []byte("1 beginbfrange\n<03> <05> <0061>\nendbfrange\n")

	cmap := ParseToUnicodeCMap(content, "Test")

	r3, _ := cmap.GetUnicode(0x03)
	r4, _ := cmap.GetUnicode(0x04)
	r5, _ := cmap.GetUnicode(0x05)
	assert.Equal(t, 'a', r3)
	assert.Equal(t, 'b', r4)
	assert.Equal(t, 'c', r5)
}

func TestParseToUnicodeCMap_Empty(t *testing.T) {
	cmap := ParseToUnicodeCMap([]byte(""), "Test")
	assert.Equal(t, 0, cmap.Len())
}
