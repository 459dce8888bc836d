package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookupByExtension(t *testing.T) {
	r := NewRegistry()

	cases := map[string]string{
		"Foo.java":    "java",
		"foo.ts":      "typescript",
		"foo.tsx":     "typescript",
		"foo.js":      "typescript",
		"foo.jsx":     "typescript",
		"foo.py":      "python",
		"foo.c":       "c",
		"foo.h":       "c",
		"Foo.php":     "php",
		"foo.rb":      "ruby",
		"foo.rs":      "rust",
	}
	for path, lang := range cases {
		e := r.Lookup(path)
		require.NotNil(t, e, "expected an extractor for %s", path)
		assert.Equal(t, lang, e.Language(), "unexpected language for %s", path)
	}
}

func TestRegistryLookupUnknownExtensionReturnsNil(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Lookup("README.md"))
	assert.Nil(t, r.Lookup("data.yaml"))
}

func TestRegistryExtractDispatches(t *testing.T) {
	r := NewRegistry()
	fs, err := r.Extract([]byte("fn add() {}\n"), "add.rs")
	require.NoError(t, err)
	require.NotNil(t, fs)
	assert.Equal(t, "rust", fs.Language)
}

func TestRegistryExtractUnknownExtensionReturnsNil(t *testing.T) {
	r := NewRegistry()
	fs, err := r.Extract([]byte("hello"), "notes.txt")
	require.NoError(t, err)
	assert.Nil(t, fs)
}
