package store

import (
	"database/sql"
	"fmt"
	"sync"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

var vecInitOnce sync.Once

// initVectorExtension registers sqlite-vec with the sqlite3 driver. Safe to
// call from multiple Open calls in one process; the registration itself
// only needs to happen once per binary, matching the teacher's
// InitVectorExtension.
func initVectorExtension() {
	vecInitOnce.Do(sqlite_vec.Auto)
}

// createVectorIndex creates the vec0 virtual table backing KNN queries over
// chunk embeddings. Keyed by embedding_id rather than chunk_id since a chunk
// may carry embeddings from more than one model.
func createVectorIndex(db *sql.DB, dimensions int) error {
	createSQL := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS chunks_vec USING vec0(
			embedding_id TEXT PRIMARY KEY,
			embedding float[%d]
		)
	`, dimensions)
	_, err := db.Exec(createSQL)
	return err
}

// upsertVector replaces embeddingID's vector. vec0 has no INSERT OR REPLACE,
// so this deletes then inserts, matching the teacher's UpdateVectorIndex.
func upsertVector(tx *sql.Tx, embeddingID string, vector []float32) error {
	if _, err := tx.Exec("DELETE FROM chunks_vec WHERE embedding_id = ?", embeddingID); err != nil {
		return fmt.Errorf("delete stale vector for %s: %w", embeddingID, err)
	}
	bytes, err := sqlite_vec.SerializeFloat32(vector)
	if err != nil {
		return fmt.Errorf("serialize embedding for %s: %w", embeddingID, err)
	}
	if _, err := tx.Exec("INSERT INTO chunks_vec (embedding_id, embedding) VALUES (?, ?)", embeddingID, bytes); err != nil {
		return fmt.Errorf("insert vector for %s: %w", embeddingID, err)
	}
	return nil
}

func deleteVectorsByEmbeddingIDs(tx *sql.Tx, embeddingIDs []string) error {
	if len(embeddingIDs) == 0 {
		return nil
	}
	stmt, err := tx.Prepare("DELETE FROM chunks_vec WHERE embedding_id = ?")
	if err != nil {
		return fmt.Errorf("prepare vector delete: %w", err)
	}
	defer stmt.Close()
	for _, id := range embeddingIDs {
		if _, err := stmt.Exec(id); err != nil {
			return fmt.Errorf("delete vector for %s: %w", id, err)
		}
	}
	return nil
}

// VectorHit is one result from a nearest-neighbor query over chunk
// embeddings, joined back to its owning chunk.
type VectorHit struct {
	ChunkID  string
	Distance float64
}

// QuerySimilar runs a cosine-distance KNN search over embeddings for the
// given model and returns the closest chunk IDs, ascending by distance.
func (s *Store) QuerySimilar(queryVec []float32, model string, limit int) ([]VectorHit, error) {
	bytes, err := sqlite_vec.SerializeFloat32(queryVec)
	if err != nil {
		return nil, fmt.Errorf("serialize query embedding: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT e.chunk_id, vec_distance_cosine(v.embedding, ?) AS distance
		FROM chunks_vec v
		JOIN embeddings e ON e.embedding_id = v.embedding_id
		WHERE e.model = ?
		ORDER BY distance
		LIMIT ?
	`, bytes, model, limit)
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}
	defer rows.Close()

	var hits []VectorHit
	for rows.Next() {
		var h VectorHit
		if err := rows.Scan(&h.ChunkID, &h.Distance); err != nil {
			return nil, fmt.Errorf("scan vector hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
