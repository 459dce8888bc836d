package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxcore/ctxcore/internal/store"
)

func TestFullTextFindsMatchingChunk(t *testing.T) {
	st := newTestStore(t, 3)
	mustReplaceFile(t, st, "widget.go", []store.ChunkInput{{
		Ordinal: 0, Kind: "CODE_FUNCTION", Content: "func RenderWidget() { return widget }", TokenEstimate: 8,
	}})
	mustReplaceFile(t, st, "other.go", []store.ChunkInput{{
		Ordinal: 0, Kind: "CODE_FUNCTION", Content: "func Unrelated() {}", TokenEstimate: 4,
	}})

	ft, err := NewFullText(st)
	require.NoError(t, err)

	results, err := ft.Search(context.Background(), Params{Query: "widget", K: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "widget.go", results[0].FilePath)
}

func TestFullTextReloadPicksUpNewChunks(t *testing.T) {
	st := newTestStore(t, 3)
	ft, err := NewFullText(st)
	require.NoError(t, err)

	results, err := ft.Search(context.Background(), Params{Query: "gadget", K: 5})
	require.NoError(t, err)
	assert.Empty(t, results)

	mustReplaceFile(t, st, "gadget.go", []store.ChunkInput{{
		Ordinal: 0, Kind: "CODE_FUNCTION", Content: "func NewGadget() {}", TokenEstimate: 4,
	}})
	require.NoError(t, ft.Reload(context.Background()))

	results, err = ft.Search(context.Background(), Params{Query: "gadget", K: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "gadget.go", results[0].FilePath)
}

func TestFullTextExcludesPatternMatches(t *testing.T) {
	st := newTestStore(t, 3)
	mustReplaceFile(t, st, "vendor/widget.go", []store.ChunkInput{{
		Ordinal: 0, Kind: "CODE_FUNCTION", Content: "func RenderWidget() {}", TokenEstimate: 4,
	}})

	ft, err := NewFullText(st)
	require.NoError(t, err)

	results, err := ft.Search(context.Background(), Params{Query: "widget", K: 5, ExcludePatterns: []string{"vendor/**"}})
	require.NoError(t, err)
	assert.Empty(t, results)
}
