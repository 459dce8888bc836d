package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRustExtractorStructImplAndTrait(t *testing.T) {
	e := NewRustExtractor()
	content := []byte("use std::fmt;\n\nstruct Point {\n    x: i32,\n    y: i32,\n}\n\nimpl fmt::Display for Point {\n    fn fmt(&self) {\n        helper();\n    }\n}\n")

	fs, err := e.Extract(content, "point.rs")
	require.NoError(t, err)
	require.NotNil(t, fs)

	require.Len(t, fs.Imports, 1)

	var sawStruct, sawMethod bool
	for _, s := range fs.Symbols {
		if s.Kind == KindType && s.Name == "Point" {
			sawStruct = true
			assert.Equal(t, "struct", s.TypeTag)
		}
		if s.Kind == KindMethod && s.Name == "fmt" {
			sawMethod = true
			assert.Equal(t, "Point", s.Owner)
		}
	}
	assert.True(t, sawStruct)
	assert.True(t, sawMethod)

	require.Len(t, fs.Relationships, 1)
	assert.Equal(t, "implements", fs.Relationships[0].Kind)
	assert.Equal(t, "Point", fs.Relationships[0].From)

	require.Len(t, fs.Calls, 1)
	assert.Equal(t, "fmt", fs.Calls[0].Caller)
	assert.Equal(t, "helper", fs.Calls[0].Callee)
}

func TestRustExtractorTopLevelFunction(t *testing.T) {
	e := NewRustExtractor()
	content := []byte("fn add(a: i32, b: i32) -> i32 {\n    a + b\n}\n")

	fs, err := e.Extract(content, "add.rs")
	require.NoError(t, err)
	require.NotNil(t, fs)

	require.Len(t, fs.Symbols, 1)
	assert.Equal(t, KindFunction, fs.Symbols[0].Kind)
	assert.Equal(t, "add", fs.Symbols[0].Name)
	assert.Equal(t, "", fs.Symbols[0].Owner)
}

func TestRustExtractorInherentImplNoTraitRelationship(t *testing.T) {
	e := NewRustExtractor()
	content := []byte("struct Point {\n    x: i32,\n}\n\nimpl Point {\n    fn new() -> Point {\n        Point { x: 0 }\n    }\n}\n")

	fs, err := e.Extract(content, "point.rs")
	require.NoError(t, err)
	require.NotNil(t, fs)

	assert.Empty(t, fs.Relationships)

	var sawMethod bool
	for _, s := range fs.Symbols {
		if s.Kind == KindMethod && s.Name == "new" {
			sawMethod = true
			assert.Equal(t, "Point", s.Owner)
		}
	}
	assert.True(t, sawMethod)
}

func TestRustExtractorEmptyContent(t *testing.T) {
	e := NewRustExtractor()
	fs, err := e.Extract([]byte(""), "empty.rs")
	require.NoError(t, err)
	if fs != nil {
		assert.Empty(t, fs.Symbols)
	}
}
