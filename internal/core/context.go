// Package core wires the independently-testable C1-C12 components into
// one constructed value a host embeds: the store, the chunker/symbol
// registries, the incremental indexer and startup reconciler, the
// retrieval pipeline, the refresh/rebuild job manager, and the usage
// metrics collector. Nothing here parses a config file or a command
// line; the host builds a config.Config programmatically and passes it
// to New.
package core

import (
	"context"
	"fmt"

	"github.com/ctxcore/ctxcore/internal/chunk"
	"github.com/ctxcore/ctxcore/internal/config"
	"github.com/ctxcore/ctxcore/internal/index"
	"github.com/ctxcore/ctxcore/internal/jobs"
	"github.com/ctxcore/ctxcore/internal/metrics"
	"github.com/ctxcore/ctxcore/internal/retrieval"
	"github.com/ctxcore/ctxcore/internal/retrieval/provider"
	"github.com/ctxcore/ctxcore/internal/store"
	"github.com/ctxcore/ctxcore/internal/symbols"
	"github.com/ctxcore/ctxcore/internal/tokens"
)

// Embedder produces a vector for a chunk or query, shared across the
// indexer's write path and the semantic provider's read path. A nil
// Embedder is accepted: chunks are persisted without embeddings and the
// semantic provider is left out of the enabled set, matching spec's
// "semantic retrieval degrades to zero contributions" rule.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
	Dimensions() int
}

// Context is the fully wired core instance. Every exported field is
// read-only after New returns; there is no setter, matching "no global
// mutable state outside [store, lock table, rebuild flag, job registry,
// metrics ring buffer]; configuration is immutable after construction."
type Context struct {
	Config    config.Config
	Store     *store.Store
	Indexer   *index.Indexer
	Discovery *index.Discovery
	Reconciler *index.Reconciler
	Pipeline  *retrieval.Pipeline
	Jobs      *jobs.Manager
	Metrics   *metrics.Collector

	closed bool
}

// New builds a Context from cfg. embedder may be nil (no semantic
// indexing or retrieval); gitRepoPath may be empty (no git_history
// provider). The store's vector dimension is fixed when st is opened, not
// here.
func New(cfg config.Config, st *store.Store, embedder Embedder, gitRepoPath string) (*Context, error) {
	if err := config.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	chunkRegistry := chunk.NewRegistry(chunk.Options{
		MaxTokens:      cfg.Chunking.MaxTokens,
		OverlapPercent: cfg.Chunking.OverlapPercent,
	})
	symbolRegistry := symbols.NewRegistry()
	estimator := tokens.NewDefault()

	discovery, err := index.NewDiscovery(cfg.Paths.RootDir, cfg.Paths.IncludePatterns, cfg.Paths.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("%w: build discovery: %v", ErrFatal, err)
	}

	var idxEmbedder index.Embedder
	if embedder != nil {
		idxEmbedder = embedder
	}

	idx := index.New(index.Config{
		RootDir:  cfg.Paths.RootDir,
		AllowExt: cfg.Paths.AllowExt,
		BlockExt: cfg.Paths.BlockExt,
	}, st, chunkRegistry, symbolRegistry, estimator, idxEmbedder)

	reconciler := index.NewReconciler(st, idx, discovery)

	providers, err := buildProviders(cfg, st, embedder, gitRepoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: build providers: %v", ErrFatal, err)
	}

	pipeline := retrieval.New(providers, st, estimator, cfg.Retrieval)

	jobManager := jobs.New(st, idx, discovery)

	collector := metrics.New(st, cfg.Metrics.WindowSize)

	return &Context{
		Config:     cfg,
		Store:      st,
		Indexer:    idx,
		Discovery:  discovery,
		Reconciler: reconciler,
		Pipeline:   pipeline,
		Jobs:       jobManager,
		Metrics:    collector,
	}, nil
}

func buildProviders(cfg config.Config, st *store.Store, embedder Embedder, gitRepoPath string) ([]provider.RetrievalProvider, error) {
	var providers []provider.RetrievalProvider

	if pc, ok := cfg.Retrieval.Providers["full_text"]; ok && pc.Enabled {
		ft, err := provider.NewFullText(st)
		if err != nil {
			return nil, fmt.Errorf("full_text provider: %w", err)
		}
		providers = append(providers, ft)
	}

	if pc, ok := cfg.Retrieval.Providers["symbol"]; ok && pc.Enabled {
		sym, err := provider.NewSymbol(st)
		if err != nil {
			return nil, fmt.Errorf("symbol provider: %w", err)
		}
		providers = append(providers, sym)
	}

	if pc, ok := cfg.Retrieval.Providers["semantic"]; ok && pc.Enabled && embedder != nil {
		providers = append(providers, provider.NewSemantic(st, embedder))
	}

	if pc, ok := cfg.Retrieval.Providers["git_history"]; ok && pc.Enabled && gitRepoPath != "" {
		gh, err := provider.NewGitHistory(st, gitRepoPath)
		if err != nil {
			return nil, fmt.Errorf("git_history provider: %w", err)
		}
		providers = append(providers, gh)
	}

	return providers, nil
}

// Close releases the store's underlying connection. Safe to call once;
// a second call is a no-op.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.Store.Close()
}
