package store

import (
	"database/sql"
	"fmt"
)

// createSchema creates every table, index, and trigger the store needs.
// Tables are created in FK-dependency order; chunks_vec and chunks_fts are
// virtual tables and must be created outside the enclosing transaction,
// matching the teacher's CreateSchema (sqlite-vec/FTS5 virtual tables
// cannot participate in a surrounding BEGIN/COMMIT).
func createSchema(db *sql.DB, dimensions int) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"file_state", createFileStateTable},
		{"chunks", createChunksTable},
		{"embeddings", createEmbeddingsTable},
		{"symbols", createSymbolsTable},
		{"links", createLinksTable},
		{"usage_metrics", createUsageMetricsTable},
		{"bootstrap_errors", createBootstrapErrorsTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("create %s table: %w", table.name, err)
		}
	}

	for i, idx := range schemaIndexes() {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}

	if err := createVectorIndex(db, dimensions); err != nil {
		return fmt.Errorf("create vector index: %w", err)
	}
	if err := createFTSIndex(db); err != nil {
		return fmt.Errorf("create fts index: %w", err)
	}

	return nil
}

const createFileStateTable = `
CREATE TABLE IF NOT EXISTS file_state (
    file_id TEXT PRIMARY KEY,
    rel_path TEXT NOT NULL UNIQUE,
    abs_path TEXT NOT NULL UNIQUE,
    content_hash TEXT NOT NULL,
    size_bytes INTEGER NOT NULL DEFAULT 0,
    mtime_ns INTEGER NOT NULL DEFAULT 0,
    language TEXT,
    kind TEXT,
    fingerprint TEXT,
    indexed_at TEXT NOT NULL,
    is_deleted INTEGER NOT NULL DEFAULT 0
)
`

const createChunksTable = `
CREATE TABLE IF NOT EXISTS chunks (
    chunk_id TEXT PRIMARY KEY,
    file_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    kind TEXT NOT NULL,
    start_line INTEGER,
    end_line INTEGER,
    token_estimate INTEGER NOT NULL DEFAULT 0,
    content TEXT NOT NULL,
    summary TEXT,
    created_at TEXT NOT NULL,
    FOREIGN KEY (file_id) REFERENCES file_state(file_id) ON DELETE CASCADE,
    UNIQUE (file_id, ordinal)
)
`

const createEmbeddingsTable = `
CREATE TABLE IF NOT EXISTS embeddings (
    embedding_id TEXT PRIMARY KEY,
    chunk_id TEXT NOT NULL,
    model TEXT NOT NULL,
    dimensions INTEGER NOT NULL,
    vector BLOB NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (chunk_id) REFERENCES chunks(chunk_id) ON DELETE CASCADE,
    UNIQUE (chunk_id, model)
)
`

// createSymbolsTable persists internal/symbols.Symbol rows per file.
const createSymbolsTable = `
CREATE TABLE IF NOT EXISTS symbols (
    symbol_id TEXT PRIMARY KEY,
    file_id TEXT NOT NULL,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,
    type_tag TEXT,
    owner TEXT,
    signature TEXT,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    FOREIGN KEY (file_id) REFERENCES file_state(file_id) ON DELETE CASCADE
)
`

// createLinksTable generalizes internal/symbols.Relationship and Call into
// one edge table: a relationship is a link between two symbol names
// ("extends"/"implements"/"includes"); a call is a link of kind "calls"
// from a caller name to a callee name.
const createLinksTable = `
CREATE TABLE IF NOT EXISTS links (
    link_id TEXT PRIMARY KEY,
    file_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    from_name TEXT NOT NULL,
    to_name TEXT NOT NULL,
    line INTEGER,
    FOREIGN KEY (file_id) REFERENCES file_state(file_id) ON DELETE CASCADE
)
`

const createUsageMetricsTable = `
CREATE TABLE IF NOT EXISTS usage_metrics (
    query_id TEXT PRIMARY KEY,
    query TEXT NOT NULL,
    hit_count INTEGER NOT NULL DEFAULT 0,
    tokens_used INTEGER NOT NULL DEFAULT 0,
    latency_ms INTEGER NOT NULL DEFAULT 0,
    provider_info TEXT,
    created_at TEXT NOT NULL
)
`

const createBootstrapErrorsTable = `
CREATE TABLE IF NOT EXISTS bootstrap_errors (
    path TEXT PRIMARY KEY,
    message TEXT NOT NULL,
    occurred_at TEXT NOT NULL
)
`

func schemaIndexes() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_file_state_language ON file_state(language)",
		"CREATE INDEX IF NOT EXISTS idx_file_state_is_deleted ON file_state(is_deleted)",
		"CREATE INDEX IF NOT EXISTS idx_chunks_file_id ON chunks(file_id)",
		"CREATE INDEX IF NOT EXISTS idx_chunks_kind ON chunks(kind)",
		"CREATE INDEX IF NOT EXISTS idx_embeddings_chunk_id ON embeddings(chunk_id)",
		"CREATE INDEX IF NOT EXISTS idx_symbols_file_id ON symbols(file_id)",
		"CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name)",
		"CREATE INDEX IF NOT EXISTS idx_links_file_id ON links(file_id)",
		"CREATE INDEX IF NOT EXISTS idx_links_from_name ON links(from_name)",
		"CREATE INDEX IF NOT EXISTS idx_links_to_name ON links(to_name)",
	}
}
