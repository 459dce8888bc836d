package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLChunkerOneChunkPerTopLevelKey(t *testing.T) {
	c := NewYAMLChunker(Options{})
	content := "a: 1\nb:\n  c: 2\n"

	chunks, err := c.Chunk(content, "config.yaml", "")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, KindYAMLBlock, chunks[0].Kind)
	assert.Equal(t, "a", chunks[0].Summary)
	assert.Equal(t, "b", chunks[1].Summary)
}

func TestYAMLChunkerUnparseableFallsBackToRootChunk(t *testing.T) {
	c := NewYAMLChunker(Options{})
	content := "not: valid: yaml: [hanging"

	chunks, err := c.Chunk(content, "broken.yaml", "")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "root", chunks[0].Summary)
	assert.Equal(t, content, chunks[0].Content)
}

func TestJSONChunkerOneChunkPerTopLevelKey(t *testing.T) {
	c := NewJSONChunker(Options{})
	content := `{"a": 1, "b": {"c": 2}}`

	chunks, err := c.Chunk(content, "config.json", "")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, ch := range chunks {
		assert.Equal(t, KindJSONBlock, ch.Kind)
	}
	assert.Equal(t, "a", chunks[0].Summary)
	assert.Equal(t, "b", chunks[1].Summary)
}

func TestJSONChunkerArrayOneChunkPerElement(t *testing.T) {
	c := NewJSONChunker(Options{})
	content := `[1, 2, 3]`

	chunks, err := c.Chunk(content, "list.json", "")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "[0]", chunks[0].Summary)
	assert.Equal(t, "[1]", chunks[1].Summary)
	assert.Equal(t, "[2]", chunks[2].Summary)
}

func TestTreeChunkerScalarRootFallback(t *testing.T) {
	c := NewJSONChunker(Options{})
	content := `42`

	chunks, err := c.Chunk(content, "num.json", "")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "root", chunks[0].Summary)
}

func TestTreeChunkerEmptyContent(t *testing.T) {
	c := NewJSONChunker(Options{})
	chunks, err := c.Chunk("", "empty.json", "")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
