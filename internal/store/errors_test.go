package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAndListBootstrapErrors(t *testing.T) {
	s := newTestStore(t, 4)

	require.NoError(t, s.LogBootstrapError("/repo/a.go", errors.New("parse failed")))
	require.NoError(t, s.LogBootstrapError("/repo/b.go", errors.New("read failed")))

	errs, err := s.ListBootstrapErrors()
	require.NoError(t, err)
	require.Len(t, errs, 2)
}

func TestLogBootstrapErrorReplacesPriorEntry(t *testing.T) {
	s := newTestStore(t, 4)
	require.NoError(t, s.LogBootstrapError("/repo/a.go", errors.New("first failure")))
	require.NoError(t, s.LogBootstrapError("/repo/a.go", errors.New("second failure")))

	errs, err := s.ListBootstrapErrors()
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "second failure", errs[0].Message)
}

func TestRetryFailedReturnsPathsAndClears(t *testing.T) {
	s := newTestStore(t, 4)
	require.NoError(t, s.LogBootstrapError("/repo/a.go", errors.New("fail")))
	require.NoError(t, s.LogBootstrapError("/repo/b.go", errors.New("fail")))

	paths, err := s.RetryFailed()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/repo/a.go", "/repo/b.go"}, paths)

	errs, err := s.ListBootstrapErrors()
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestResetBootstrapErrorsStartsClean(t *testing.T) {
	s := newTestStore(t, 4)
	require.NoError(t, s.LogBootstrapError("/repo/a.go", errors.New("fail")))

	require.NoError(t, s.ResetBootstrapErrors())

	errs, err := s.ListBootstrapErrors()
	require.NoError(t, err)
	assert.Empty(t, errs)
}
