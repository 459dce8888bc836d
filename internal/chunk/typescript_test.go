package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeScriptChunkerExportedFunction(t *testing.T) {
	c := NewTypeScriptChunker(Options{})
	content := "export function add(a, b) {\n  return a + b;\n}\n"

	chunks, err := c.Chunk(content, "math.ts", "")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	fn := chunks[0]
	assert.Equal(t, KindCodeFunction, fn.Kind)
	assert.Equal(t, "add", fn.Summary)
	assert.Equal(t, 1, fn.StartLine)
	assert.Equal(t, 3, fn.EndLine)
}

func TestTypeScriptChunkerExportedConstStatement(t *testing.T) {
	c := NewTypeScriptChunker(Options{})
	content := "export const X = 1;\nexport const Y = 2;\n"

	chunks, err := c.Chunk(content, "consts.ts", "")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, KindCodeBlock, chunks[0].Kind)
	assert.Equal(t, "X", chunks[0].Summary)
	assert.Equal(t, "Y", chunks[1].Summary)
}

func TestTypeScriptChunkerHeaderFromImports(t *testing.T) {
	c := NewTypeScriptChunker(Options{})
	content := "import { a } from 'a';\nimport b from 'b';\n\nexport class Foo {}\n"

	chunks, err := c.Chunk(content, "foo.ts", "")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, KindCodeHeader, chunks[0].Kind)
}

func TestTypeScriptChunkerEmptyContent(t *testing.T) {
	c := NewTypeScriptChunker(Options{})
	chunks, err := c.Chunk("", "foo.ts", "")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
