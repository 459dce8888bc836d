package store

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// RecordUsageMetric persists one query's summary statistics, giving the
// in-memory ring buffer internal/metrics keeps a durable counterpart that
// survives process restarts.
func (s *Store) RecordUsageMetric(m UsageMetric) error {
	id := m.QueryID
	if id == "" {
		id = uuid.New().String()
	}
	_, err := sq.Insert("usage_metrics").
		Columns("query_id", "query", "hit_count", "tokens_used", "latency_ms", "provider_info", "created_at").
		Values(id, m.Query, m.HitCount, m.TokensUsed, m.LatencyMs, nullableString(m.ProviderInfo), time.Now().UTC().Format(time.RFC3339Nano)).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("record usage metric: %w", err)
	}
	return nil
}

// RecentUsageMetrics returns the most recently recorded queries, newest
// first, bounded by limit.
func (s *Store) RecentUsageMetrics(limit int) ([]UsageMetric, error) {
	rows, err := sq.Select("query_id", "query", "hit_count", "tokens_used", "latency_ms", "provider_info", "created_at").
		From("usage_metrics").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("fetch recent usage metrics: %w", err)
	}
	defer rows.Close()

	var out []UsageMetric
	for rows.Next() {
		var m UsageMetric
		var providerInfo sql.NullString
		var createdAt string
		if err := rows.Scan(&m.QueryID, &m.Query, &m.HitCount, &m.TokensUsed, &m.LatencyMs, &providerInfo, &createdAt); err != nil {
			return nil, fmt.Errorf("scan usage metric: %w", err)
		}
		m.ProviderInfo = providerInfo.String
		m.CreatedAt = parseTimestamp(createdAt)
		out = append(out, m)
	}
	return out, rows.Err()
}
