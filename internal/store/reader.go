package store

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// FetchFileArtifacts returns relPath's file record, chunks and embeddings as
// currently persisted, or nil if no file row exists at relPath. A soft-deleted
// file is still returned, with IsDeleted set.
func (s *Store) FetchFileArtifacts(relPath string) (*FileArtifacts, error) {
	var file FileRecord
	var language, kind, fingerprint sql.NullString
	var indexedAt string
	err := sq.Select("file_id", "rel_path", "abs_path", "content_hash", "size_bytes", "mtime_ns", "language", "kind", "fingerprint", "indexed_at", "is_deleted").
		From("file_state").
		Where(sq.Eq{"rel_path": relPath}).
		RunWith(s.db).QueryRow().
		Scan(&file.FileID, &file.RelativePath, &file.AbsolutePath, &file.ContentHash, &file.SizeBytes, &file.ModifiedTimeNs, &language, &kind, &fingerprint, &indexedAt, &file.IsDeleted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch file %s: %w", relPath, err)
	}
	file.Language, file.Kind, file.Fingerprint = language.String, kind.String, fingerprint.String
	file.IndexedAt = parseTimestamp(indexedAt)

	chunks, err := s.fetchChunksForFile(file.FileID)
	if err != nil {
		return nil, err
	}
	embeddings, err := s.fetchEmbeddingsForFile(file.FileID)
	if err != nil {
		return nil, err
	}
	return &FileArtifacts{File: file, Chunks: chunks, Embeddings: embeddings}, nil
}

func (s *Store) fetchChunksForFile(fileID string) ([]ChunkRecord, error) {
	rows, err := sq.Select("chunk_id", "file_id", "ordinal", "kind", "start_line", "end_line", "token_estimate", "content", "summary", "created_at").
		From("chunks").
		Where(sq.Eq{"file_id": fileID}).
		OrderBy("ordinal ASC").
		RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("fetch chunks for file %s: %w", fileID, err)
	}
	defer rows.Close()

	var out []ChunkRecord
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) fetchEmbeddingsForFile(fileID string) ([]EmbeddingRecord, error) {
	rows, err := sq.Select("e.embedding_id", "e.chunk_id", "e.model", "e.dimensions", "e.vector", "e.created_at").
		From("embeddings e").
		Join("chunks c ON c.chunk_id = e.chunk_id").
		Where(sq.Eq{"c.file_id": fileID}).
		RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("fetch embeddings for file %s: %w", fileID, err)
	}
	defer rows.Close()

	var out []EmbeddingRecord
	for rows.Next() {
		var e EmbeddingRecord
		var vectorBytes []byte
		var createdAt string
		if err := rows.Scan(&e.EmbeddingID, &e.ChunkID, &e.Model, &e.Dimensions, &vectorBytes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		vec, err := deserializeEmbedding(vectorBytes)
		if err != nil {
			return nil, fmt.Errorf("deserialize embedding %s: %w", e.EmbeddingID, err)
		}
		e.Vector = vec
		e.CreatedAt = parseTimestamp(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ChunkByID hydrates a single chunk with its owning file, the shape the
// semantic and full_text retrieval providers need to turn a bare chunk_id
// hit into a candidate with file_path/language/kind/content populated.
// Returns nil if chunk_id doesn't exist or its file has been deleted.
func (s *Store) ChunkByID(chunkID string) (*ChunkWithFile, error) {
	var cf ChunkWithFile
	var chunkStart, chunkEnd sql.NullInt64
	var summary sql.NullString
	var chunkCreatedAt string
	var language, kind, fingerprint sql.NullString
	var fileIndexedAt string
	err := sq.Select(
		"c.chunk_id", "c.file_id", "c.ordinal", "c.kind", "c.start_line", "c.end_line", "c.token_estimate", "c.content", "c.summary", "c.created_at",
		"f.file_id", "f.rel_path", "f.abs_path", "f.content_hash", "f.size_bytes", "f.mtime_ns", "f.language", "f.kind", "f.fingerprint", "f.indexed_at", "f.is_deleted",
	).
		From("chunks c").
		Join("file_state f ON f.file_id = c.file_id").
		Where(sq.Eq{"c.chunk_id": chunkID, "f.is_deleted": false}).
		RunWith(s.db).QueryRow().
		Scan(
			&cf.Chunk.ChunkID, &cf.Chunk.FileID, &cf.Chunk.Ordinal, &cf.Chunk.Kind, &chunkStart, &chunkEnd, &cf.Chunk.TokenEstimate, &cf.Chunk.Content, &summary, &chunkCreatedAt,
			&cf.File.FileID, &cf.File.RelativePath, &cf.File.AbsolutePath, &cf.File.ContentHash, &cf.File.SizeBytes, &cf.File.ModifiedTimeNs, &language, &kind, &fingerprint, &fileIndexedAt, &cf.File.IsDeleted,
		)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch chunk %s: %w", chunkID, err)
	}
	cf.Chunk.StartLine, cf.Chunk.EndLine = int(chunkStart.Int64), int(chunkEnd.Int64)
	cf.Chunk.Summary = summary.String
	cf.Chunk.CreatedAt = parseTimestamp(chunkCreatedAt)
	cf.File.Language, cf.File.Kind, cf.File.Fingerprint = language.String, kind.String, fingerprint.String
	cf.File.IndexedAt = parseTimestamp(fileIndexedAt)
	return &cf, nil
}

// FilePathForFileID returns the relative path of an active file, used by the
// symbol provider to turn a symbols/links row's bare file_id into a
// candidate's file_path.
func (s *Store) FilePathForFileID(fileID string) (string, error) {
	var relPath string
	err := sq.Select("rel_path").From("file_state").
		Where(sq.Eq{"file_id": fileID, "is_deleted": false}).
		RunWith(s.db).QueryRow().Scan(&relPath)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup path for file %s: %w", fileID, err)
	}
	return relPath, nil
}

// ListActiveFiles returns every non-deleted file record, used by the startup
// reconciler to diff against the filesystem.
func (s *Store) ListActiveFiles() ([]FileRecord, error) {
	rows, err := sq.Select("file_id", "rel_path", "abs_path", "content_hash", "size_bytes", "mtime_ns", "language", "kind", "fingerprint", "indexed_at", "is_deleted").
		From("file_state").
		Where(sq.Eq{"is_deleted": false}).
		RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("list active files: %w", err)
	}
	defer rows.Close()

	var out []FileRecord
	for rows.Next() {
		var f FileRecord
		var language, kind, fingerprint sql.NullString
		var indexedAt string
		if err := rows.Scan(&f.FileID, &f.RelativePath, &f.AbsolutePath, &f.ContentHash, &f.SizeBytes, &f.ModifiedTimeNs, &language, &kind, &fingerprint, &indexedAt, &f.IsDeleted); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		f.Language, f.Kind, f.Fingerprint = language.String, kind.String, fingerprint.String
		f.IndexedAt = parseTimestamp(indexedAt)
		out = append(out, f)
	}
	return out, rows.Err()
}

// SearchChunks runs scope over active files' chunks, joining each hit with
// its owning file record. It applies no ranking of its own; callers
// (retrieval providers) order the results.
func (s *Store) SearchChunks(scope ScopeFilter) ([]ChunkWithFile, error) {
	query := sq.Select(
		"c.chunk_id", "c.file_id", "c.ordinal", "c.kind", "c.start_line", "c.end_line", "c.token_estimate", "c.content", "c.summary", "c.created_at",
		"f.file_id", "f.rel_path", "f.abs_path", "f.content_hash", "f.size_bytes", "f.mtime_ns", "f.language", "f.kind", "f.fingerprint", "f.indexed_at", "f.is_deleted",
	).
		From("chunks c").
		Join("file_state f ON f.file_id = c.file_id").
		Where(sq.Eq{"f.is_deleted": false})

	query = applyScopeFilter(query, scope)

	rows, err := query.RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	defer rows.Close()

	var out []ChunkWithFile
	for rows.Next() {
		var cf ChunkWithFile
		var chunkStart, chunkEnd sql.NullInt64
		var summary sql.NullString
		var chunkCreatedAt string
		var language, kind, fingerprint sql.NullString
		var fileIndexedAt string
		err := rows.Scan(
			&cf.Chunk.ChunkID, &cf.Chunk.FileID, &cf.Chunk.Ordinal, &cf.Chunk.Kind, &chunkStart, &chunkEnd, &cf.Chunk.TokenEstimate, &cf.Chunk.Content, &summary, &chunkCreatedAt,
			&cf.File.FileID, &cf.File.RelativePath, &cf.File.AbsolutePath, &cf.File.ContentHash, &cf.File.SizeBytes, &cf.File.ModifiedTimeNs, &language, &kind, &fingerprint, &fileIndexedAt, &cf.File.IsDeleted,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chunk with file: %w", err)
		}
		cf.Chunk.StartLine, cf.Chunk.EndLine = int(chunkStart.Int64), int(chunkEnd.Int64)
		cf.Chunk.Summary = summary.String
		cf.Chunk.CreatedAt = parseTimestamp(chunkCreatedAt)
		cf.File.Language, cf.File.Kind, cf.File.Fingerprint = language.String, kind.String, fingerprint.String
		cf.File.IndexedAt = parseTimestamp(fileIndexedAt)
		out = append(out, cf)
	}
	return out, rows.Err()
}

// applyScopeFilter ANDs scope's non-empty filter groups together, with the
// members of each group OR'd, and subtracts ExcludePatterns as NOT LIKE
// clauses against the relative path.
func applyScopeFilter(query sq.SelectBuilder, scope ScopeFilter) sq.SelectBuilder {
	if len(scope.Paths) > 0 {
		or := sq.Or{}
		for _, p := range scope.Paths {
			or = append(or, sq.Like{"f.rel_path": p + "%"})
		}
		query = query.Where(or)
	}
	if len(scope.Languages) > 0 {
		query = query.Where(sq.Eq{"f.language": scope.Languages})
	}
	if len(scope.Kinds) > 0 {
		query = query.Where(sq.Eq{"c.kind": scope.Kinds})
	}
	for _, pattern := range scope.ExcludePatterns {
		query = query.Where(sq.NotLike{"f.rel_path": pattern})
	}
	return query
}

func scanChunk(rows *sql.Rows) (ChunkRecord, error) {
	var c ChunkRecord
	var start, end sql.NullInt64
	var summary sql.NullString
	var createdAt string
	if err := rows.Scan(&c.ChunkID, &c.FileID, &c.Ordinal, &c.Kind, &start, &end, &c.TokenEstimate, &c.Content, &summary, &createdAt); err != nil {
		return c, fmt.Errorf("scan chunk: %w", err)
	}
	c.StartLine, c.EndLine = int(start.Int64), int(end.Int64)
	c.Summary = summary.String
	c.CreatedAt = parseTimestamp(createdAt)
	return c, nil
}
