// Package store is the transactional SQLite persistence layer behind the
// indexer and retrieval pipeline: file/chunk/embedding storage with atomic
// replace semantics, the structural symbols/links graph, a bootstrap error
// log, and the full-text/vector indexes the retrieval providers query.
package store

import "time"

// FileRecord represents one indexed file's metadata.
type FileRecord struct {
	FileID         string
	RelativePath   string
	AbsolutePath   string
	ContentHash    string
	SizeBytes      int64
	ModifiedTimeNs int64
	Language       string
	Kind           string
	Fingerprint    string
	IndexedAt      time.Time
	IsDeleted      bool
}

// ChunkInput is a chunk awaiting persistence, paired with its optional
// embedding. Ordinal is assigned by the caller and must be dense starting
// at 0 within a file.
type ChunkInput struct {
	Ordinal       int
	Kind          string
	StartLine     int
	EndLine       int
	TokenEstimate int
	Content       string
	Summary       string
	Embedding     *EmbeddingInput
}

// EmbeddingInput is a vector to persist alongside a chunk.
type EmbeddingInput struct {
	Model      string
	Dimensions int
	Vector     []float32
}

// ChunkRecord is a persisted chunk as read back from the store.
type ChunkRecord struct {
	ChunkID       string
	FileID        string
	Ordinal       int
	Kind          string
	StartLine     int
	EndLine       int
	TokenEstimate int
	Content       string
	Summary       string
	CreatedAt     time.Time
}

// EmbeddingRecord is a persisted embedding as read back from the store.
type EmbeddingRecord struct {
	EmbeddingID string
	ChunkID     string
	Model       string
	Dimensions  int
	Vector      []float32
	CreatedAt   time.Time
}

// FileArtifacts bundles a file and everything replace_file_artifacts wrote
// for it in one transaction.
type FileArtifacts struct {
	File       FileRecord
	Chunks     []ChunkRecord
	Embeddings []EmbeddingRecord
}

// ChunkWithFile joins a chunk with the file metadata it belongs to, the
// shape search_chunks returns.
type ChunkWithFile struct {
	Chunk ChunkRecord
	File  FileRecord
}

// ScopeFilter narrows a SearchChunks query: only active
// (non-deleted) files matching every non-empty filter are considered.
type ScopeFilter struct {
	Paths           []string // relative-path prefixes, OR'd
	Languages       []string // lowercase, OR'd
	Kinds           []string // chunk kinds, OR'd
	ExcludePatterns []string // SQL LIKE patterns on rel_path, subtractive
}

// ContextSnippet is the ephemeral retrieval result handed back to callers.
type ContextSnippet struct {
	ChunkID   string
	Score     float64
	FilePath  string
	Label     string
	Kind      string
	Text      string
	Language  string
	StartLine int
	EndLine   int
	Metadata  map[string]any
}

// TokenBudget holds a snippet request's token limits. No function in this
// module takes it; the retrieval pipeline packs against QueryParams.MaxTokens.
type TokenBudget struct {
	MaxTokens        int
	ReserveForPrompt int
	DiversityWeight  float64
}

// BootstrapError is one logged per-path ingestion failure.
type BootstrapError struct {
	Path       string
	Message    string
	OccurredAt time.Time
}

// UsageMetric is one persisted query's summary statistics, written by
// internal/metrics alongside its in-memory ring buffer.
type UsageMetric struct {
	QueryID      string
	Query        string
	HitCount     int
	TokensUsed   int
	LatencyMs    int64
	ProviderInfo string // JSON-encoded per-provider stats
	CreatedAt    time.Time
}
