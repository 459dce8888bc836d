package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxcore/ctxcore/internal/symbols"
)

func TestReplaceFileSymbolsPersistsSymbolsAndLinks(t *testing.T) {
	s := newTestStore(t, 4)
	_, err := s.ReplaceFileArtifacts(testFileRecord("foo.go"), nil)
	require.NoError(t, err)

	fs := &symbols.FileSymbols{
		FilePath: "foo.go",
		Language: "go",
		Symbols: []symbols.Symbol{
			{Name: "Foo", Kind: symbols.KindType, TypeTag: "struct", StartLine: 1, EndLine: 5},
			{Name: "Bar", Kind: symbols.KindMethod, TypeTag: "method", Owner: "Foo", StartLine: 6, EndLine: 10},
		},
		Relationships: []symbols.Relationship{
			{From: "Foo", To: "Base", Kind: "implements"},
		},
		Calls: []symbols.Call{
			{Caller: "Bar", Callee: "helper", Line: 8},
		},
	}

	require.NoError(t, s.ReplaceFileSymbols("foo.go", fs))

	found, err := s.FindSymbolsByName("Bar")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Foo", found[0].Owner)

	links, err := s.LinksFrom("Foo")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "implements", links[0].Kind)
	assert.Equal(t, "Base", links[0].ToName)

	calls, err := s.LinksFrom("Bar")
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, linkKindCalls, calls[0].Kind)
	assert.Equal(t, "helper", calls[0].ToName)
}

func TestReplaceFileSymbolsReplacesStaleEntries(t *testing.T) {
	s := newTestStore(t, 4)
	_, err := s.ReplaceFileArtifacts(testFileRecord("foo.go"), nil)
	require.NoError(t, err)

	require.NoError(t, s.ReplaceFileSymbols("foo.go", &symbols.FileSymbols{
		Symbols: []symbols.Symbol{{Name: "Old", Kind: symbols.KindType, StartLine: 1, EndLine: 2}},
	}))
	require.NoError(t, s.ReplaceFileSymbols("foo.go", &symbols.FileSymbols{
		Symbols: []symbols.Symbol{{Name: "New", Kind: symbols.KindType, StartLine: 1, EndLine: 2}},
	}))

	found, err := s.FindSymbolsByName("Old")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = s.FindSymbolsByName("New")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestReplaceFileSymbolsNilClearsEntries(t *testing.T) {
	s := newTestStore(t, 4)
	_, err := s.ReplaceFileArtifacts(testFileRecord("foo.go"), nil)
	require.NoError(t, err)
	require.NoError(t, s.ReplaceFileSymbols("foo.go", &symbols.FileSymbols{
		Symbols: []symbols.Symbol{{Name: "Gone", Kind: symbols.KindType, StartLine: 1, EndLine: 2}},
	}))

	require.NoError(t, s.ReplaceFileSymbols("foo.go", nil))

	found, err := s.FindSymbolsByName("Gone")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestListAllSymbolsExcludesDeletedFiles(t *testing.T) {
	s := newTestStore(t, 4)
	_, err := s.ReplaceFileArtifacts(testFileRecord("foo.go"), nil)
	require.NoError(t, err)
	_, err = s.ReplaceFileArtifacts(testFileRecord("bar.go"), nil)
	require.NoError(t, err)

	require.NoError(t, s.ReplaceFileSymbols("foo.go", &symbols.FileSymbols{
		Symbols: []symbols.Symbol{{Name: "Keep", Kind: symbols.KindType, StartLine: 1, EndLine: 2}},
	}))
	require.NoError(t, s.ReplaceFileSymbols("bar.go", &symbols.FileSymbols{
		Symbols: []symbols.Symbol{{Name: "Drop", Kind: symbols.KindType, StartLine: 1, EndLine: 2}},
	}))
	require.NoError(t, s.MarkFileDeleted("bar.go"))

	all, err := s.ListAllSymbols()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Keep", all[0].Name)
}

func TestListAllLinksExcludesDeletedFiles(t *testing.T) {
	s := newTestStore(t, 4)
	_, err := s.ReplaceFileArtifacts(testFileRecord("foo.go"), nil)
	require.NoError(t, err)
	_, err = s.ReplaceFileArtifacts(testFileRecord("bar.go"), nil)
	require.NoError(t, err)

	require.NoError(t, s.ReplaceFileSymbols("foo.go", &symbols.FileSymbols{
		Relationships: []symbols.Relationship{{From: "A", To: "B", Kind: "implements"}},
	}))
	require.NoError(t, s.ReplaceFileSymbols("bar.go", &symbols.FileSymbols{
		Relationships: []symbols.Relationship{{From: "C", To: "D", Kind: "implements"}},
	}))
	require.NoError(t, s.MarkFileDeleted("bar.go"))

	all, err := s.ListAllLinks()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "A", all[0].FromName)
}
