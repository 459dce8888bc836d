package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRubyExtractorClassWithSuperclassAndMethod(t *testing.T) {
	e := NewRubyExtractor()
	content := []byte("require 'base'\n\nclass Foo < Base\n  def bar\n    helper\n  end\nend\n")

	fs, err := e.Extract(content, "foo.rb")
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

	require.Len(t, fs.Relationships, 1)
	assert.Equal(t, "extends", fs.Relationships[0].Kind)
	assert.Equal(t, "Base", fs.Relationships[0].To)
}

func TestRubyExtractorModuleSymbol(t *testing.T) {
	e := NewRubyExtractor()
	content := []byte("module Greeter\n  def greet\n  end\nend\n")

	fs, err := e.Extract(content, "greeter.rb")
	require.NoError(t, err)
	require.NotNil(t, fs)

	var sawModule, sawMethod bool
	for _, s := range fs.Symbols {
		if s.Kind == KindType && s.Name == "Greeter" {
			sawModule = true
			assert.Equal(t, "module", s.TypeTag)
		}
		if s.Kind == KindMethod && s.Name == "greet" {
			sawMethod = true
			assert.Equal(t, "Greeter", s.Owner)
		}
	}
	assert.True(t, sawModule)
	assert.True(t, sawMethod)
}

func TestRubyExtractorEmptyContent(t *testing.T) {
	e := NewRubyExtractor()
	fs, err := e.Extract([]byte(""), "empty.rb")
	require.NoError(t, err)
	if fs != nil {
		assert.Empty(t, fs.Symbols)
	}
}
