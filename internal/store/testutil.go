package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func init() {
	initVectorExtension()
}

// newTestStore opens an in-memory store with dimensions-wide embeddings for
// test use, with cleanup registered automatically.
func newTestStore(t testing.TB, dimensions int) *Store {
	t.Helper()
	s, err := Open(":memory:", dimensions)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}
