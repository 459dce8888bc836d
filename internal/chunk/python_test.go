package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPythonChunkerModuleAndFunctionDocstrings(t *testing.T) {
	c := NewPythonChunker(Options{})
	content := "\"\"\"Module doc\"\"\"\ndef f(x):\n    \"\"\"F doc\"\"\"\n    return x"

	chunks, err := c.Chunk(content, "m.py", "")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, KindDocstring, chunks[0].Kind)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 1, chunks[0].EndLine)
	assert.Equal(t, "Module docstring", chunks[0].Summary)

	assert.Equal(t, KindDocstring, chunks[1].Kind)
	assert.Equal(t, 3, chunks[1].StartLine)
	assert.Equal(t, 3, chunks[1].EndLine)
	assert.Equal(t, "Function f docstring", chunks[1].Summary)

	assert.Equal(t, KindCodeFunction, chunks[2].Kind)
	assert.Equal(t, 2, chunks[2].StartLine)
	assert.Equal(t, 4, chunks[2].EndLine)
	assert.Equal(t, "Function f", chunks[2].Summary)
}

func TestPythonChunkerClassWithDecorator(t *testing.T) {
	c := NewPythonChunker(Options{})
	content := "@dataclass\nclass Point:\n    x: int\n    y: int\n"

	chunks, err := c.Chunk(content, "p.py", "")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, KindCodeClass, chunks[0].Kind)
	assert.Equal(t, "Class Point", chunks[0].Summary)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 5, chunks[0].EndLine)
}

func TestPythonIndentCountsTabsAsFour(t *testing.T) {
	assert.Equal(t, 4, pyIndent("\tx = 1"))
	assert.Equal(t, 8, pyIndent("\t\tx = 1"))
	assert.Equal(t, 2, pyIndent("  x = 1"))
	assert.Equal(t, 0, pyIndent(""))
}

func TestPythonChunkerEmptyContent(t *testing.T) {
	c := NewPythonChunker(Options{})
	chunks, err := c.Chunk("", "m.py", "")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
