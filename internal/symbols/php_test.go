package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPHPExtractorClassWithBaseInterfaceAndCall(t *testing.T) {
	e := NewPHPExtractor()
	content := []byte("<?php\nuse App\\Base;\n\nclass Foo extends Base implements Runnable {\n    public function bar() {\n        helper();\n    }\n}\n")

	fs, err := e.Extract(content, "Foo.php")
	require.NoError(t, err)
	require.NotNil(t, fs)

	require.Len(t, fs.Imports, 1)

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
		if r.Kind == "extends" {
			sawExtends = true
		}
		if r.Kind == "implements" {
			sawImplements = true
		}
	}
	assert.True(t, sawExtends)
	assert.True(t, sawImplements)

	require.Len(t, fs.Calls, 1)
	assert.Equal(t, "helper", fs.Calls[0].Callee)
}

func TestPHPExtractorInterfaceKind(t *testing.T) {
	e := NewPHPExtractor()
	content := []byte("<?php\ninterface Greeter {\n    public function greet();\n}\n")

	fs, err := e.Extract(content, "Greeter.php")
	require.NoError(t, err)
	require.NotNil(t, fs)

	require.Len(t, fs.Symbols, 1)
	assert.Equal(t, "interface", fs.Symbols[0].TypeTag)
	assert.Equal(t, "Greeter", fs.Symbols[0].Name)
}

func TestPHPExtractorEmptyContent(t *testing.T) {
	e := NewPHPExtractor()
	fs, err := e.Extract([]byte("<?php\n"), "empty.php")
	require.NoError(t, err)
	if fs != nil {
		assert.Empty(t, fs.Symbols)
	}
}
