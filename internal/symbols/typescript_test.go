package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeScriptExtractorClassWithHeritageAndCall(t *testing.T) {
	e := NewTypeScriptExtractor()
	content := []byte("import { Base } from \"./base\";\n\nclass Foo extends Base implements Runnable {\n  bar() {\n    helper();\n  }\n}\n")

	fs, err := e.Extract(content, "foo.ts")
	require.NoError(t, err)
	require.NotNil(t, fs)

	require.Len(t, fs.Imports, 1)
	assert.Equal(t, "./base", fs.Imports[0].Path)

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

	var sawExtends, sawImplements bool
	for _, r := range fs.Relationships {
		if r.Kind == "extends" && r.To == "Base" {
			sawExtends = true
		}
		if r.Kind == "implements" && r.To == "Runnable" {
			sawImplements = true
		}
	}
	assert.True(t, sawExtends)
	assert.True(t, sawImplements)

	require.Len(t, fs.Calls, 1)
	assert.Equal(t, "bar", fs.Calls[0].Caller)
	assert.Equal(t, "helper", fs.Calls[0].Callee)
}

func TestTypeScriptExtractorTopLevelFunction(t *testing.T) {
	e := NewTypeScriptExtractor()
	content := []byte("export function add(a, b) {\n  return a + b;\n}\n")

	fs, err := e.Extract(content, "add.ts")
	require.NoError(t, err)
	require.NotNil(t, fs)

	require.Len(t, fs.Symbols, 1)
	assert.Equal(t, KindFunction, fs.Symbols[0].Kind)
	assert.Equal(t, "add", fs.Symbols[0].Name)
}

func TestTypeScriptExtractorMemberCallName(t *testing.T) {
	e := NewTypeScriptExtractor()
	content := []byte("function run() {\n  obj.method();\n}\n")

	fs, err := e.Extract(content, "run.ts")
	require.NoError(t, err)
	require.NotNil(t, fs)

	require.Len(t, fs.Calls, 1)
	assert.Equal(t, "run", fs.Calls[0].Caller)
	assert.Equal(t, "method", fs.Calls[0].Callee)
}

func TestTypeScriptExtractorEmptyContent(t *testing.T) {
	e := NewTypeScriptExtractor()
	fs, err := e.Extract([]byte(""), "empty.ts")
	require.NoError(t, err)
	if fs != nil {
		assert.Empty(t, fs.Symbols)
	}
}
