package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJavaExtractorClassWithMethodAndCall(t *testing.T) {
	e := NewJavaExtractor()
	content := []byte("package com.example;\n\nimport java.util.List;\n\npublic class Foo extends Base implements Runnable {\n    public void bar() {\n        helper();\n    }\n}\n")

	fs, err := e.Extract(content, "Foo.java")
	require.NoError(t, err)
	require.NotNil(t, fs)

	assert.Equal(t, "java", fs.Language)
	assert.Equal(t, "com.example", fs.PackageName)
	assert.Equal(t, 1, fs.ImportsCount)
	require.Len(t, fs.Imports, 1)
	assert.Equal(t, "java.util.List", fs.Imports[0].Path)

	var sawClass, sawMethod bool
	for _, s := range fs.Symbols {
		if s.Kind == KindType && s.Name == "Foo" {
			sawClass = true
			assert.Equal(t, "class", s.TypeTag)
		}
		if s.Kind == KindMethod && s.Name == "bar" {
			sawMethod = true
			assert.Equal(t, "Foo", s.Owner)
		}
	}
	assert.True(t, sawClass, "expected a type symbol for Foo")
	assert.True(t, sawMethod, "expected a method symbol for bar")

	var sawExtends, sawImplements bool
	for _, r := range fs.Relationships {
		if r.Kind == "extends" && r.From == "Foo" && r.To == "Base" {
			sawExtends = true
		}
		if r.Kind == "implements" && r.From == "Foo" && r.To == "Runnable" {
			sawImplements = true
		}
	}
	assert.True(t, sawExtends, "expected Foo extends Base")
	assert.True(t, sawImplements, "expected Foo implements Runnable")

	require.Len(t, fs.Calls, 1)
	assert.Equal(t, "bar", fs.Calls[0].Caller)
	assert.Equal(t, "helper", fs.Calls[0].Callee)
}

func TestJavaExtractorEmptyContent(t *testing.T) {
	e := NewJavaExtractor()
	fs, err := e.Extract([]byte(""), "Empty.java")
	require.NoError(t, err)
	if fs != nil {
		assert.Empty(t, fs.Symbols)
	}
}
