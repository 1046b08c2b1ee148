package tabledetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/gxpdf/internal/extractor"
)

func TestStreamExtractor_EmptyText(t *testing.T) {
	tbl, err := NewStreamExtractor().Extract(nil, nil, nil, 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.RowCount)
	assert.Equal(t, 1, tbl.ColCount)
}

func TestStreamExtractor_TwoRowsTwoColumns(t *testing.T) {
	elements := []*extractor.TextElement{
		el("Name", 0, 100, 20, 10, "F1", 10),
		el("Age", 100, 100, 20, 10, "F1", 10),
		el("Alice", 0, 80, 20, 10, "F1", 10),
		el("30", 100, 80, 20, 10, "F1", 10),
	}

	tbl, err := NewStreamExtractor().Extract(elements, nil, nil, 0, 200)
	require.NoError(t, err)

	assert.Equal(t, "stream", tbl.Method)
	assert.Equal(t, 2, tbl.RowCount)
	assert.Equal(t, "Name", tbl.Rows[0][0].Text)
	assert.Equal(t, "Age", tbl.Rows[0][1].Text)
	assert.Equal(t, "Alice", tbl.Rows[1][0].Text)
	assert.Equal(t, "30", tbl.Rows[1][1].Text)
}

func TestStreamExtractor_WithVerticalRulingXs(t *testing.T) {
	elements := []*extractor.TextElement{
		el("A", 0, 100, 10, 10, "F1", 10),
		el("B", 50, 100, 10, 10, "F1", 10),
	}

	tbl, err := NewStreamExtractor().Extract(elements, nil, []float64{30}, 0, 200)
	require.NoError(t, err)

	assert.Equal(t, "A", tbl.Rows[0][0].Text)
	assert.Equal(t, "B", tbl.Rows[0][1].Text)
}

func TestBuildStreamTable_OverflowColumn(t *testing.T) {
	se := NewStreamExtractor()
	elements := []*extractor.TextElement{el("Over", 500, 0, 10, 10, "F1", 10)}
	chunks := MergeElementsIntoChunks(elements, nil)
	lines := GroupChunksIntoLines(chunks, 0.5)

	tbl, err := se.buildStreamTable(lines, []float64{20, 40})
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.ColCount)
	assert.Equal(t, "Over", tbl.Rows[0][2].Text)
}
