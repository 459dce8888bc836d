package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPythonExtractorClassWithBaseAndMethod(t *testing.T) {
	e := NewPythonExtractor()
	content := []byte("from os import path\n\nclass Foo(Base):\n    def bar(self):\n        helper()\n")

	fs, err := e.Extract(content, "foo.py")
	require.NoError(t, err)
	require.NotNil(t, fs)

	require.Len(t, fs.Imports, 1)
	assert.Equal(t, "os", fs.Imports[0].Path)

	var sawClass, sawMethod bool
	for _, s := range fs.Symbols {
		if s.Kind == KindType && s.Name == "Foo" {
			sawClass = true
		}
		if s.Kind == KindMethod && s.Name == "bar" {
			sawMethod = true
			assert.Equal(t, "Foo", s.Owner)
		}
	}
	assert.True(t, sawClass)
	assert.True(t, sawMethod)

	require.Len(t, fs.Relationships, 1)
	assert.Equal(t, "extends", fs.Relationships[0].Kind)
	assert.Equal(t, "Base", fs.Relationships[0].To)

	require.Len(t, fs.Calls, 1)
	assert.Equal(t, "bar", fs.Calls[0].Caller)
	assert.Equal(t, "helper", fs.Calls[0].Callee)
}

func TestPythonExtractorTopLevelFunctionOnly(t *testing.T) {
	e := NewPythonExtractor()
	content := []byte("def standalone():\n    pass\n")

	fs, err := e.Extract(content, "standalone.py")
	require.NoError(t, err)
	require.NotNil(t, fs)

	require.Len(t, fs.Symbols, 1)
	assert.Equal(t, KindFunction, fs.Symbols[0].Kind)
	assert.Equal(t, "", fs.Symbols[0].Owner)
}

func TestPythonExtractorAttributeCallName(t *testing.T) {
	e := NewPythonExtractor()
	content := []byte("def run():\n    obj.method()\n")

	fs, err := e.Extract(content, "run.py")
	require.NoError(t, err)
	require.NotNil(t, fs)

	require.Len(t, fs.Calls, 1)
	assert.Equal(t, "method", fs.Calls[0].Callee)
}

func TestPythonExtractorEmptyContent(t *testing.T) {
	e := NewPythonExtractor()
	fs, err := e.Extract([]byte(""), "empty.py")
	require.NoError(t, err)
	if fs != nil {
		assert.Empty(t, fs.Symbols)
	}
}
