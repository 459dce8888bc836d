package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a single SQLite database holding every table and index this
// package defines. A Store is safe for concurrent use by multiple
// goroutines; database/sql pools connections internally.
type Store struct {
	db         *sql.DB
	dimensions int
}

// Open opens (creating if absent) the SQLite database at path and ensures
// its schema, including the vec0 and FTS5 virtual tables, exists. dimensions
// fixes the embedding width the vector index accepts; it must match every
// embedding written through ReplaceFileArtifacts.
func Open(path string, dimensions int) (*Store, error) {
	initVectorExtension()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createSchema(db, dimensions); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, dimensions: dimensions}, nil
}

// Close releases the underlying database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection pool for packages that need to run
// queries this package doesn't otherwise expose (metrics aggregation,
// maintenance commands).
func (s *Store) DB() *sql.DB {
	return s.db
}
