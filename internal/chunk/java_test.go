package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJavaChunkerASTExtractsClassAndMethod(t *testing.T) {
	c := NewJavaChunker(Options{})
	content := "package com.example;\n\npublic class Foo {\n    public void bar() {\n        System.out.println(1);\n    }\n}\n"

	chunks, err := c.Chunk(content, "Foo.java", "")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	var sawClass, sawMethod bool
	for _, ch := range chunks {
		switch ch.Kind {
		case KindCodeClass:
			sawClass = true
			assert.Equal(t, "Foo", ch.Summary)
		case KindCodeMethod:
			sawMethod = true
			assert.Contains(t, ch.Summary, "bar")
		}
	}
	assert.True(t, sawClass, "expected a CODE_CLASS chunk")
	assert.True(t, sawMethod, "expected a CODE_METHOD chunk")
}

func TestJavaChunkerInterfaceKind(t *testing.T) {
	c := NewJavaChunker(Options{})
	content := "public interface Greeter {\n    void greet();\n}\n"

	chunks, err := c.Chunk(content, "Greeter.java", "")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	found := false
	for _, ch := range chunks {
		if ch.Kind == KindCodeInterface {
			found = true
			assert.Equal(t, "Greeter", ch.Summary)
		}
	}
	assert.True(t, found, "expected a CODE_INTERFACE chunk")
}

func TestJavaChunkerBraceHeuristicFallback(t *testing.T) {
	c := NewJavaChunker(Options{})
	chunks, err := c.chunkWithBraceHeuristic("class Foo {\n    int x;\n}\n")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, KindCodeClass, chunks[0].Kind)
	assert.Equal(t, "Foo", chunks[0].Summary)
}

func TestJavaChunkerEmptyContent(t *testing.T) {
	c := NewJavaChunker(Options{})
	chunks, err := c.chunkWithBraceHeuristic("")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
