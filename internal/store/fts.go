package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// createFTSIndex creates the FTS5 virtual table backing lexical search over
// chunk content. unicode61 with diacritics preserved matches the teacher's
// tokenizer choice; chunk_id is UNINDEXED since it is never matched against,
// only joined back to chunks.
func createFTSIndex(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
			chunk_id UNINDEXED,
			content,
			tokenize = 'unicode61 remove_diacritics 0'
		)
	`)
	return err
}

// upsertFTSEntry replaces chunkID's indexed text. FTS5 has no INSERT OR
// REPLACE either, so this deletes then inserts, matching chunks_vec.
func upsertFTSEntry(tx *sql.Tx, chunkID, content string) error {
	if _, err := tx.Exec("DELETE FROM chunks_fts WHERE chunk_id = ?", chunkID); err != nil {
		return fmt.Errorf("delete stale fts entry for %s: %w", chunkID, err)
	}
	if _, err := tx.Exec("INSERT INTO chunks_fts (chunk_id, content) VALUES (?, ?)", chunkID, content); err != nil {
		return fmt.Errorf("insert fts entry for %s: %w", chunkID, err)
	}
	return nil
}

func deleteFTSEntries(tx *sql.Tx, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	stmt, err := tx.Prepare("DELETE FROM chunks_fts WHERE chunk_id = ?")
	if err != nil {
		return fmt.Errorf("prepare fts delete: %w", err)
	}
	defer stmt.Close()
	for _, id := range chunkIDs {
		if _, err := stmt.Exec(id); err != nil {
			return fmt.Errorf("delete fts entry for %s: %w", id, err)
		}
	}
	return nil
}

// FTSHit is one BM25-ranked lexical match, joined back to its chunk.
type FTSHit struct {
	ChunkID string
	Rank    float64
	Snippet string
}

// QueryFTS runs a BM25-ranked full-text search and returns the best matches
// with a highlighted excerpt, ascending by rank (more negative is better,
// matching SQLite FTS5's convention).
func (s *Store) QueryFTS(query string, limit int) ([]FTSHit, error) {
	escaped := escapeFTSQuery(query)
	if escaped == "" {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT chunk_id, rank, snippet(chunks_fts, 1, '[', ']', '...', 12)
		FROM chunks_fts
		WHERE chunks_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, escaped, limit)
	if err != nil {
		return nil, fmt.Errorf("query fts index: %w", err)
	}
	defer rows.Close()

	var hits []FTSHit
	for rows.Next() {
		var h FTSHit
		if err := rows.Scan(&h.ChunkID, &h.Rank, &h.Snippet); err != nil {
			return nil, fmt.Errorf("scan fts hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// escapeFTSQuery quotes each term so user input can't inject FTS5 query
// syntax (column filters, NEAR, boolean operators), matching the teacher's
// escapeFTSQuery.
func escapeFTSQuery(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}
