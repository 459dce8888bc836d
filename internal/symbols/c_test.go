package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCExtractorStructFunctionAndCall(t *testing.T) {
	e := NewCExtractor()
	content := []byte("#include <stdio.h>\n\nstruct Point {\n    int x;\n    int y;\n};\n\nint add(int a, int b) {\n    return helper(a, b);\n}\n")

	fs, err := e.Extract(content, "foo.c")
	require.NoError(t, err)
	require.NotNil(t, fs)

	require.Len(t, fs.Imports, 1)
	assert.Equal(t, "stdio.h", fs.Imports[0].Path)

	var sawStruct, sawFunc bool
	for _, s := range fs.Symbols {
		if s.Kind == KindType && s.Name == "Point" {
			sawStruct = true
			assert.Equal(t, "struct", s.TypeTag)
		}
		if s.Kind == KindFunction && s.Name == "add" {
			sawFunc = true
		}
	}
	assert.True(t, sawStruct)
	assert.True(t, sawFunc)

	require.Len(t, fs.Calls, 1)
	assert.Equal(t, "add", fs.Calls[0].Caller)
	assert.Equal(t, "helper", fs.Calls[0].Callee)
}

func TestCExtractorPointerDeclaratorFunctionName(t *testing.T) {
	e := NewCExtractor()
	content := []byte("char *make(void) {\n    return 0;\n}\n")

	fs, err := e.Extract(content, "make.c")
	require.NoError(t, err)
	require.NotNil(t, fs)

	require.Len(t, fs.Symbols, 1)
	assert.Equal(t, "make", fs.Symbols[0].Name)
}

func TestCExtractorEmptyContent(t *testing.T) {
	e := NewCExtractor()
	fs, err := e.Extract([]byte(""), "empty.c")
	require.NoError(t, err)
	if fs != nil {
		assert.Empty(t, fs.Symbols)
	}
}
