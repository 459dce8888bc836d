package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSharpChunkerHeaderAndClass(t *testing.T) {
	c := NewCSharpChunker(Options{})
	content := "using System;\n\nclass Foo\n{\n    Foo()\n    {\n        Value = 1;\n    }\n}\n"

	chunks, err := c.Chunk(content, "Foo.cs", "")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	header := chunks[0]
	assert.Equal(t, KindCodeHeader, header.Kind)
	assert.Equal(t, 1, header.StartLine)
	assert.Equal(t, "using System;", header.Content)

	class := chunks[1]
	assert.Equal(t, KindCodeClass, class.Kind)
	assert.Equal(t, "Foo", class.Summary)
	assert.Equal(t, 3, class.StartLine)
	assert.Equal(t, 9, class.EndLine)
}

func TestCSharpChunkerInterfaceKind(t *testing.T) {
	c := NewCSharpChunker(Options{})
	content := "interface IFoo\n{\n    void Bar();\n}\n"

	chunks, err := c.Chunk(content, "IFoo.cs", "")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, KindCodeInterface, chunks[0].Kind)
	assert.Equal(t, "IFoo", chunks[0].Summary)
}

func TestCSharpChunkerEmptyContent(t *testing.T) {
	c := NewCSharpChunker(Options{})
	chunks, err := c.Chunk("", "Foo.cs", "")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
