package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxcore/ctxcore/internal/store"
)

func newTestCollector(t *testing.T, windowSize int) *Collector {
	t.Helper()
	st, err := store.Open(":memory:", 4)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewWithRegistry(st, windowSize, prometheus.NewRegistry())
}

func TestRecordAppendsToRingBufferNewestFirst(t *testing.T) {
	c := newTestCollector(t, 10)
	c.Record(Record{QueryID: "1", TokensUsed: 10, LatencyMs: 5})
	c.Record(Record{QueryID: "2", TokensUsed: 20, LatencyMs: 7})

	recent := c.Recent(10)
	require.Len(t, recent, 2)
	assert.Equal(t, "2", recent[0].QueryID)
	assert.Equal(t, "1", recent[1].QueryID)
}

func TestRecordEvictsOldestOnceWindowFull(t *testing.T) {
	c := newTestCollector(t, 2)
	c.Record(Record{QueryID: "1"})
	c.Record(Record{QueryID: "2"})
	c.Record(Record{QueryID: "3"})

	recent := c.Recent(10)
	require.Len(t, recent, 2)
	assert.Equal(t, "3", recent[0].QueryID)
	assert.Equal(t, "2", recent[1].QueryID)
}

func TestAggregateTracksTotalsBeyondWindow(t *testing.T) {
	c := newTestCollector(t, 1)
	c.Record(Record{TokensUsed: 100, LatencyMs: 10})
	c.Record(Record{TokensUsed: 200, LatencyMs: 30})

	agg := c.Aggregate()
	assert.Equal(t, int64(2), agg.TotalRecords)
	assert.Equal(t, int64(300), agg.TotalContextTokens)
	assert.Equal(t, 20.0, agg.AverageLatencyMs)
}

func TestRecordPersistsToStore(t *testing.T) {
	st, err := store.Open(":memory:", 4)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c := NewWithRegistry(st, 10, prometheus.NewRegistry())
	c.Record(Record{QueryID: "q1", Query: "foo", TokensUsed: 50, LatencyMs: 5})

	persisted, err := st.RecentUsageMetrics(10)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "q1", persisted[0].QueryID)
}

func TestRecentZeroOrNegativeReturnsFullWindow(t *testing.T) {
	c := newTestCollector(t, 5)
	c.Record(Record{QueryID: "1"})
	c.Record(Record{QueryID: "2"})

	assert.Len(t, c.Recent(0), 2)
	assert.Len(t, c.Recent(-1), 2)
}
