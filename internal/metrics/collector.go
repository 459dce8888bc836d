// Package metrics implements the usage metrics collector (C12): an
// in-memory ring buffer of recent query records plus running aggregates,
// persisted alongside to the store's usage_metrics table, and a
// Prometheus exposition of the same signals for host-platform scraping.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ctxcore/ctxcore/internal/store"
)

// Record is one retrieval's summary statistics, the shape MetricsCollector
// both buffers in memory and persists.
type Record struct {
	QueryID         string
	Query           string
	SnippetsReturned int
	TokensUsed      int
	LatencyMs       int64
	ProviderInfo    string
	RecordedAt      time.Time
}

// Aggregate summarizes every record the collector has ever seen, not just
// the ones still in the ring buffer.
type Aggregate struct {
	TotalRecords       int64
	TotalContextTokens int64
	AverageLatencyMs   float64
}

// Collector is the ring-buffer-backed MetricsCollector. Safe for
// concurrent use; Record is expected to be called once per completed
// retrieval, from whatever goroutine served it.
type Collector struct {
	store      *store.Store
	prometheus *prometheusMetrics

	mu         sync.Mutex
	window     []Record
	windowSize int
	next       int
	count      int

	totalRecords     int64
	totalTokens      int64
	totalLatencyMs   int64
}

// New builds a Collector with the given ring-buffer capacity, persisting
// every record to st in addition to buffering it. A nil st disables
// persistence (tests, dry-run tooling); persistence failures are ignored
// since the ring buffer and aggregates remain the source of truth for a
// live process.
func New(st *store.Store, windowSize int) *Collector {
	return NewWithRegistry(st, windowSize, prometheus.DefaultRegisterer)
}

// NewWithRegistry builds a Collector against a specific Prometheus
// registry, letting tests avoid the duplicate-registration panic that
// comes from sharing prometheus.DefaultRegisterer across test cases.
func NewWithRegistry(st *store.Store, windowSize int, reg prometheus.Registerer) *Collector {
	if windowSize <= 0 {
		windowSize = 100
	}
	return &Collector{
		store:      st,
		prometheus: newPrometheusMetricsWithRegistry(reg),
		window:     make([]Record, windowSize),
		windowSize: windowSize,
	}
}

// Record records one query's summary statistics: appends it to the ring
// buffer (evicting the oldest entry once full), updates the running
// aggregates, persists it to the store if one was configured, and updates
// the Prometheus exposition.
func (c *Collector) Record(r Record) {
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now()
	}

	c.mu.Lock()
	c.window[c.next] = r
	c.next = (c.next + 1) % c.windowSize
	if c.count < c.windowSize {
		c.count++
	}
	c.totalRecords++
	c.totalTokens += int64(r.TokensUsed)
	c.totalLatencyMs += r.LatencyMs
	c.mu.Unlock()

	c.prometheus.observe(r)

	if c.store != nil {
		_ = c.store.RecordUsageMetric(store.UsageMetric{
			QueryID:      r.QueryID,
			Query:        r.Query,
			HitCount:     r.SnippetsReturned,
			TokensUsed:   r.TokensUsed,
			LatencyMs:    r.LatencyMs,
			ProviderInfo: r.ProviderInfo,
			CreatedAt:    r.RecordedAt,
		})
	}
}

// Recent returns up to n of the most recently recorded records, newest
// first. n <= 0 returns the full buffered window.
func (c *Collector) Recent(n int) []Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 || n > c.count {
		n = c.count
	}
	out := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		idx := (c.next - 1 - i + c.windowSize) % c.windowSize
		out = append(out, c.window[idx])
	}
	return out
}

// Aggregate returns the running totals across every record the collector
// has ever seen, not bounded by the ring buffer's window.
func (c *Collector) Aggregate() Aggregate {
	c.mu.Lock()
	defer c.mu.Unlock()

	agg := Aggregate{
		TotalRecords:       c.totalRecords,
		TotalContextTokens: c.totalTokens,
	}
	if c.totalRecords > 0 {
		agg.AverageLatencyMs = float64(c.totalLatencyMs) / float64(c.totalRecords)
	}
	return agg
}
