// Package provider implements the independent retrieval scorers (C8):
// semantic, symbol, full_text, and the optional git_history provider. Each
// one is a pure query(params) -> candidates function behind one interface,
// fanned out in parallel by internal/retrieval's pipeline.
package provider

import "context"

// Candidate is one provider's scored contribution for a chunk. Score is the
// provider's own raw scale; internal/retrieval normalizes it during fusion.
type Candidate struct {
	ChunkID    string
	FilePath   string
	Kind       string
	Language   string
	Content    string
	StartLine  int
	EndLine    int
	TokenCount int
	Score      float64
	Highlight  string
}

// Params narrows a provider's search, mirroring the fields of the
// pipeline's QueryParams that providers can act on directly.
type Params struct {
	Query           string
	K               int
	Paths           []string
	Languages       []string
	Kinds           []string
	ExcludePatterns []string
}

// RetrievalProvider is the one capability every provider implements: given
// params and a deadline-bound context, return scored candidates. A provider
// that cannot complete in time returns ctx.Err() and the pipeline treats it
// as a zero-contribution timeout, never a pipeline-wide failure.
type RetrievalProvider interface {
	ID() string
	Search(ctx context.Context, params Params) ([]Candidate, error)
}
