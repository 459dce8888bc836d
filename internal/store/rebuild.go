package store

import "fmt"

// ClearAll empties every table a rebuild job destroys, in FK-safe order:
// usage_metrics and bootstrap_errors carry no foreign keys but are cleared
// first as a matter of convention, then links and symbols (reference
// file_state), then the chunks_fts/chunks_vec virtual tables (which have
// no FK of their own and must be cleared explicitly, same as a single
// chunk delete does), then embeddings and chunks, and finally file_state
// itself. Intended for the rebuild job's destructive phase; never called
// from the incremental indexer or reconciler.
func (s *Store) ClearAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin clear-all transaction: %w", err)
	}
	defer tx.Rollback()

	statements := []string{
		"DELETE FROM usage_metrics",
		"DELETE FROM bootstrap_errors",
		"DELETE FROM links",
		"DELETE FROM symbols",
		"DELETE FROM chunks_fts",
		"DELETE FROM chunks_vec",
		"DELETE FROM embeddings",
		"DELETE FROM chunks",
		"DELETE FROM file_state",
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clear all (%s): %w", stmt, err)
		}
	}

	return tx.Commit()
}
