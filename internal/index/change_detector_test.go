package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxcore/ctxcore/internal/store"
)

func newTestDetector(t *testing.T, root string) (*ChangeDetector, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:", 4)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	d, err := NewDiscovery(root, []string{"**/*.go"}, nil)
	require.NoError(t, err)

	return NewChangeDetector(root, st, d), st
}

func TestDetectChangesNewFile(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "new.go"), "package main\n")

	cd, _ := newTestDetector(t, root)
	changes, err := cd.DetectChanges(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"new.go"}, changes.Added)
	assert.Empty(t, changes.Modified)
	assert.Empty(t, changes.Deleted)
}

func TestDetectChangesUnchangedViaMtimeFastPath(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.go")
	writeTestFile(t, path, "package main\n")

	info, err := os.Stat(path)
	require.NoError(t, err)

	cd, st := newTestDetector(t, root)
	_, err = st.ReplaceFileArtifacts(store.FileRecord{
		RelativePath: "a.go", AbsolutePath: path, ContentHash: hashBytes([]byte("package main\n")),
		ModifiedTimeNs: info.ModTime().UnixNano(),
	}, nil)
	require.NoError(t, err)

	changes, err := cd.DetectChanges(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go"}, changes.Unchanged)
}

func TestDetectChangesModifiedWhenHashDiffers(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.go")
	writeTestFile(t, path, "package main\n")

	cd, st := newTestDetector(t, root)
	_, err := st.ReplaceFileArtifacts(store.FileRecord{
		RelativePath: "a.go", AbsolutePath: path, ContentHash: "stale-hash",
		ModifiedTimeNs: 1,
	}, nil)
	require.NoError(t, err)

	changes, err := cd.DetectChanges(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go"}, changes.Modified)
}

func TestDetectChangesDeletedOnlyOnFullScan(t *testing.T) {
	root := t.TempDir()

	cd, st := newTestDetector(t, root)
	_, err := st.ReplaceFileArtifacts(store.FileRecord{
		RelativePath: "gone.go", AbsolutePath: filepath.Join(root, "gone.go"), ContentHash: "x",
	}, nil)
	require.NoError(t, err)

	changes, err := cd.DetectChanges(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"gone.go"}, changes.Deleted)

	changes, err = cd.DetectChanges(context.Background(), []string{"other.go"})
	require.NoError(t, err)
	assert.Empty(t, changes.Deleted)
}

func TestDetectChangesRespectsContextCancellation(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "a.go"), "package main\n")

	cd, _ := newTestDetector(t, root)
	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	_, err := cd.DetectChanges(ctx, []string{"a.go"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
