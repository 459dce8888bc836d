package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ctxcore/ctxcore/internal/store"
)

func newTestStore(t *testing.T, dimensions int) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:", dimensions)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func mustReplaceFile(t *testing.T, st *store.Store, relPath string, chunks []store.ChunkInput) {
	t.Helper()
	_, err := st.ReplaceFileArtifacts(store.FileRecord{
		RelativePath: relPath,
		AbsolutePath: "/repo/" + relPath,
		ContentHash:  "hash-" + relPath,
		Language:     "go",
		Kind:         "source",
	}, chunks)
	require.NoError(t, err)
}

type fakeEmbedder struct {
	vectors map[string][]float32
	model   string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return f.vectors["default"], nil
}

func (f *fakeEmbedder) Model() string { return f.model }
