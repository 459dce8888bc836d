package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// ResetBootstrapErrors drops and recreates the bootstrap_errors table so a
// fresh indexing run starts with a clean log, matching the "recreated on
// initialization" semantics rather than accumulating across runs.
func (s *Store) ResetBootstrapErrors() error {
	if _, err := s.db.Exec("DROP TABLE IF EXISTS bootstrap_errors"); err != nil {
		return fmt.Errorf("drop bootstrap_errors: %w", err)
	}
	if _, err := s.db.Exec(createBootstrapErrorsTable); err != nil {
		return fmt.Errorf("recreate bootstrap_errors: %w", err)
	}
	return nil
}

// LogBootstrapError records path's ingestion failure, replacing any prior
// entry for the same path (path is the table's primary key: one row per
// path, most recent failure wins).
func (s *Store) LogBootstrapError(path string, cause error) error {
	_, err := sq.Insert("bootstrap_errors").
		Columns("path", "message", "occurred_at").
		Values(path, cause.Error(), time.Now().UTC().Format(time.RFC3339Nano)).
		Options("OR REPLACE").
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("log bootstrap error for %s: %w", path, err)
	}
	return nil
}

// ListBootstrapErrors returns every logged failure, most recent first.
func (s *Store) ListBootstrapErrors() ([]BootstrapError, error) {
	rows, err := sq.Select("path", "message", "occurred_at").
		From("bootstrap_errors").
		OrderBy("occurred_at DESC").
		RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("list bootstrap errors: %w", err)
	}
	defer rows.Close()

	var out []BootstrapError
	for rows.Next() {
		var e BootstrapError
		var occurredAt string
		if err := rows.Scan(&e.Path, &e.Message, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan bootstrap error: %w", err)
		}
		e.OccurredAt = parseTimestamp(occurredAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearBootstrapErrors empties the log without affecting schema.
func (s *Store) ClearBootstrapErrors() error {
	if _, err := sq.Delete("bootstrap_errors").RunWith(s.db).Exec(); err != nil {
		return fmt.Errorf("clear bootstrap errors: %w", err)
	}
	return nil
}

// RetryFailed returns every logged path and clears the log, letting the
// caller re-attempt ingestion for each returned path.
func (s *Store) RetryFailed() ([]string, error) {
	errs, err := s.ListBootstrapErrors()
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(errs))
	for i, e := range errs {
		paths[i] = e.Path
	}
	if err := s.ClearBootstrapErrors(); err != nil {
		return nil, err
	}
	return paths, nil
}
