package store

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// ReplaceFileArtifacts atomically replaces every chunk and embedding
// belonging to rec.RelativePath with the given chunks, and upserts rec
// itself. Existing chunks for the file are deleted first so stale ordinals
// from a prior, differently-shaped chunking never linger; FTS5 and vec0 are
// kept in sync inside the same transaction, matching the teacher's
// WriteChunksIncremental but scoped to a single atomic unit per file rather
// than a batch across files.
func (s *Store) ReplaceFileArtifacts(rec FileRecord, chunks []ChunkInput) (*FileArtifacts, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin replace transaction: %w", err)
	}
	defer tx.Rollback()

	fileID, err := upsertFileState(tx, rec)
	if err != nil {
		return nil, err
	}

	staleChunkIDs, staleEmbeddingIDs, err := fetchStaleIDs(tx, fileID)
	if err != nil {
		return nil, err
	}
	if err := deleteFTSEntries(tx, staleChunkIDs); err != nil {
		return nil, err
	}
	if err := deleteVectorsByEmbeddingIDs(tx, staleEmbeddingIDs); err != nil {
		return nil, err
	}
	if _, err := sq.Delete("chunks").Where(sq.Eq{"file_id": fileID}).RunWith(tx).Exec(); err != nil {
		return nil, fmt.Errorf("delete stale chunks for %s: %w", rec.RelativePath, err)
	}

	now := time.Now().UTC()
	artifacts := &FileArtifacts{File: rec}
	artifacts.File.FileID = fileID

	for _, c := range chunks {
		chunkID := uuid.New().String()
		_, err := sq.Insert("chunks").
			Columns("chunk_id", "file_id", "ordinal", "kind", "start_line", "end_line", "token_estimate", "content", "summary", "created_at").
			Values(chunkID, fileID, c.Ordinal, c.Kind, nullableInt(c.StartLine), nullableInt(c.EndLine), c.TokenEstimate, c.Content, nullableString(c.Summary), now.Format(time.RFC3339Nano)).
			RunWith(tx).
			Exec()
		if err != nil {
			return nil, fmt.Errorf("insert chunk %d for %s: %w", c.Ordinal, rec.RelativePath, err)
		}
		if err := upsertFTSEntry(tx, chunkID, c.Content); err != nil {
			return nil, err
		}

		chunkRecord := ChunkRecord{
			ChunkID: chunkID, FileID: fileID, Ordinal: c.Ordinal, Kind: c.Kind,
			StartLine: c.StartLine, EndLine: c.EndLine, TokenEstimate: c.TokenEstimate,
			Content: c.Content, Summary: c.Summary, CreatedAt: now,
		}
		artifacts.Chunks = append(artifacts.Chunks, chunkRecord)

		if c.Embedding != nil {
			embeddingID := uuid.New().String()
			vectorBytes := serializeEmbedding(c.Embedding.Vector)
			_, err := sq.Insert("embeddings").
				Columns("embedding_id", "chunk_id", "model", "dimensions", "vector", "created_at").
				Values(embeddingID, chunkID, c.Embedding.Model, c.Embedding.Dimensions, vectorBytes, now.Format(time.RFC3339Nano)).
				RunWith(tx).
				Exec()
			if err != nil {
				return nil, fmt.Errorf("insert embedding for chunk %s: %w", chunkID, err)
			}
			if err := upsertVector(tx, embeddingID, c.Embedding.Vector); err != nil {
				return nil, err
			}
			artifacts.Embeddings = append(artifacts.Embeddings, EmbeddingRecord{
				EmbeddingID: embeddingID, ChunkID: chunkID, Model: c.Embedding.Model,
				Dimensions: c.Embedding.Dimensions, Vector: c.Embedding.Vector, CreatedAt: now,
			})
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace transaction: %w", err)
	}
	return artifacts, nil
}

// DeleteFileArtifacts removes a file and every chunk, embedding, symbol, and
// link that cascades from it via ON DELETE CASCADE. Returns false if no file
// with that relative path existed.
func (s *Store) DeleteFileArtifacts(relPath string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	var fileID string
	err = sq.Select("file_id").From("file_state").Where(sq.Eq{"rel_path": relPath}).RunWith(tx).QueryRow().Scan(&fileID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup file %s: %w", relPath, err)
	}

	staleChunkIDs, staleEmbeddingIDs, err := fetchStaleIDs(tx, fileID)
	if err != nil {
		return false, err
	}
	if err := deleteFTSEntries(tx, staleChunkIDs); err != nil {
		return false, err
	}
	if err := deleteVectorsByEmbeddingIDs(tx, staleEmbeddingIDs); err != nil {
		return false, err
	}

	if _, err := sq.Delete("file_state").Where(sq.Eq{"file_id": fileID}).RunWith(tx).Exec(); err != nil {
		return false, fmt.Errorf("delete file %s: %w", relPath, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete transaction: %w", err)
	}
	return true, nil
}

// MarkFileDeleted soft-deletes a file: retrievable history for reconciliation
// but excluded from active search scope. Used by the incremental indexer's
// implicit-deletion pass for active files outside the updated path set; the
// startup reconciler hard-deletes vanished paths instead.
func (s *Store) MarkFileDeleted(relPath string) error {
	_, err := sq.Update("file_state").
		Set("is_deleted", true).
		Where(sq.Eq{"rel_path": relPath}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("mark file deleted %s: %w", relPath, err)
	}
	return nil
}

func upsertFileState(tx *sql.Tx, rec FileRecord) (string, error) {
	var fileID string
	err := sq.Select("file_id").From("file_state").Where(sq.Eq{"rel_path": rec.RelativePath}).RunWith(tx).QueryRow().Scan(&fileID)
	switch {
	case err == sql.ErrNoRows:
		fileID = uuid.New().String()
	case err != nil:
		return "", fmt.Errorf("lookup file state for %s: %w", rec.RelativePath, err)
	}

	_, err = sq.Insert("file_state").
		Columns("file_id", "rel_path", "abs_path", "content_hash", "size_bytes", "mtime_ns", "language", "kind", "fingerprint", "indexed_at", "is_deleted").
		Values(fileID, rec.RelativePath, rec.AbsolutePath, rec.ContentHash, rec.SizeBytes, rec.ModifiedTimeNs, nullableString(rec.Language), nullableString(rec.Kind), nullableString(rec.Fingerprint), time.Now().UTC().Format(time.RFC3339Nano), rec.IsDeleted).
		Options("OR REPLACE").
		RunWith(tx).
		Exec()
	if err != nil {
		return "", fmt.Errorf("upsert file state for %s: %w", rec.RelativePath, err)
	}
	return fileID, nil
}

// fetchStaleIDs returns the chunk and embedding IDs currently attached to
// fileID, before they are cleared, so the FTS5 and vec0 virtual tables can
// be synchronized (those tables have no foreign key, so cascading deletes on
// chunks/embeddings never reach them).
func fetchStaleIDs(tx *sql.Tx, fileID string) (chunkIDs, embeddingIDs []string, err error) {
	rows, err := sq.Select("chunk_id").From("chunks").Where(sq.Eq{"file_id": fileID}).RunWith(tx).Query()
	if err != nil {
		return nil, nil, fmt.Errorf("fetch stale chunk ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, nil, fmt.Errorf("scan stale chunk id: %w", err)
		}
		chunkIDs = append(chunkIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	embRows, err := sq.Select("e.embedding_id").
		From("embeddings e").
		Join("chunks c ON c.chunk_id = e.chunk_id").
		Where(sq.Eq{"c.file_id": fileID}).
		RunWith(tx).Query()
	if err != nil {
		return nil, nil, fmt.Errorf("fetch stale embedding ids: %w", err)
	}
	defer embRows.Close()
	for embRows.Next() {
		var id string
		if err := embRows.Scan(&id); err != nil {
			return nil, nil, fmt.Errorf("scan stale embedding id: %w", err)
		}
		embeddingIDs = append(embeddingIDs, id)
	}
	return chunkIDs, embeddingIDs, embRows.Err()
}

// nullableInt converts a zero line number to NULL, matching the teacher's
// nullableInt (0 is not a valid 1-based line number, so it marks "absent").
func nullableInt(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
