package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxcore/ctxcore/internal/chunk"
	"github.com/ctxcore/ctxcore/internal/store"
	"github.com/ctxcore/ctxcore/internal/symbols"
)

func newTestReconciler(t *testing.T, root string) (*Reconciler, *Indexer, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:", 4)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	reg := chunk.NewRegistry(chunk.Options{})
	symReg := symbols.NewRegistry()
	idx := New(Config{RootDir: root}, st, reg, symReg, nil, nil)

	d, err := NewDiscovery(root, []string{"**/*.go"}, nil)
	require.NoError(t, err)

	return NewReconciler(st, idx, d), idx, st
}

func TestReconcileEarlyExitsWhenStoreEmpty(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "main.go"), "package main\n")

	r, _, _ := newTestReconciler(t, root)
	result := r.Reconcile(context.Background(), root)
	assert.Empty(t, result.Error)
	assert.Equal(t, 0, result.New)
	assert.Equal(t, 0, result.Deleted)
}

func TestReconcileIndexesNewlyVisibleFiles(t *testing.T) {
	root := t.TempDir()
	existingPath := filepath.Join(root, "existing.go")
	writeTestFile(t, existingPath, "package main\n")

	r, idx, st := newTestReconciler(t, root)
	_, err := idx.Update(context.Background(), []string{existingPath}, false)
	require.NoError(t, err)

	newPath := filepath.Join(root, "new.go")
	writeTestFile(t, newPath, "package main\n\nfunc f() {}\n")

	result := r.Reconcile(context.Background(), root)
	assert.Empty(t, result.Error)
	assert.Equal(t, 1, result.New)

	active, err := st.ListActiveFiles()
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestReconcileHardDeletesVanishedFiles(t *testing.T) {
	root := t.TempDir()
	goingAwayPath := filepath.Join(root, "gone.go")
	writeTestFile(t, goingAwayPath, "package main\n")

	r, idx, st := newTestReconciler(t, root)
	_, err := idx.Update(context.Background(), []string{goingAwayPath}, false)
	require.NoError(t, err)

	require.NoError(t, removeTestFile(goingAwayPath))

	result := r.Reconcile(context.Background(), root)
	assert.Empty(t, result.Error)
	assert.Equal(t, 1, result.Deleted)

	artifacts, err := st.FetchFileArtifacts("gone.go")
	require.NoError(t, err)
	assert.Nil(t, artifacts)
}

func TestReconcileReportsDiscoveryFailure(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "a.go"), "package main\n")

	r, idx, _ := newTestReconciler(t, root)
	_, err := idx.Update(context.Background(), []string{filepath.Join(root, "a.go")}, false)
	require.NoError(t, err)

	r.discovery.rootDir = filepath.Join(root, "does-not-exist")
	result := r.Reconcile(context.Background(), root)
	assert.NotEmpty(t, result.Error)
}
