package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dominikbraun/graph"

	"github.com/ctxcore/ctxcore/internal/store"
)

// Symbol is the symbol RetrievalProvider. It keeps an in-memory directed
// graph of every persisted symbol name and link, loaded in bulk on Reload
// and expanded one hop per query through dominikbraun/graph's
// predecessor and adjacency maps — the same
// load-once-traverse-in-memory shape as the teacher's graph.Searcher,
// adapted from a standalone graph MCP tool into one of several providers
// a retrieval pipeline fuses together.
type Symbol struct {
	store *store.Store

	mu      sync.RWMutex
	g       graph.Graph[string, string]
	symbols map[string][]store.SymbolRecord // name -> every declaration with that name
}

// NewSymbol builds a symbol provider and performs an initial Reload.
func NewSymbol(st *store.Store) (*Symbol, error) {
	s := &Symbol{store: st}
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Symbol) ID() string { return "symbol" }

// Reload rebuilds the in-memory symbol graph from the store's current
// symbols/links tables. Call after a batch of writes (refresh/rebuild
// jobs), matching how the teacher's graph.Searcher.Reload re-derives its
// in-memory graph from storage rather than tracking incremental deltas.
func (s *Symbol) Reload(ctx context.Context) error {
	allSymbols, err := s.store.ListAllSymbols()
	if err != nil {
		return fmt.Errorf("list symbols: %w", err)
	}
	allLinks, err := s.store.ListAllLinks()
	if err != nil {
		return fmt.Errorf("list links: %w", err)
	}

	g := graph.New(func(name string) string { return name }, graph.Directed())
	byName := make(map[string][]store.SymbolRecord, len(allSymbols))
	for _, sym := range allSymbols {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		byName[sym.Name] = append(byName[sym.Name], sym)
		_ = g.AddVertex(sym.Name)
	}
	for _, link := range allLinks {
		_ = g.AddVertex(link.FromName)
		_ = g.AddVertex(link.ToName)
		_ = g.AddEdge(link.FromName, link.ToName)
	}

	s.mu.Lock()
	s.g = g
	s.symbols = byName
	s.mu.Unlock()
	return nil
}

func (s *Symbol) Search(ctx context.Context, params Params) ([]Candidate, error) {
	name := strings.TrimSpace(params.Query)
	if name == "" {
		return nil, nil
	}

	k := params.K
	if k <= 0 {
		k = 10
	}

	s.mu.RLock()
	g, byName := s.g, s.symbols
	s.mu.RUnlock()

	if _, err := g.Vertex(name); err != nil {
		// Not a known symbol: contribute nothing rather than erroring, the
		// other providers still cover free-text queries.
		return nil, nil
	}

	scores := map[string]float64{name: 1.0}
	predecessors, err := graph.PredecessorMap(g)
	if err != nil {
		return nil, fmt.Errorf("build predecessor map: %w", err)
	}
	for _, edge := range predecessors[name] {
		if scores[edge.Source] < 0.6 {
			scores[edge.Source] = 0.6
		}
	}
	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("build adjacency map: %w", err)
	}
	for target := range adjacency[name] {
		if scores[target] < 0.6 {
			scores[target] = 0.6
		}
	}

	out := make([]Candidate, 0, len(scores))
	for symName, score := range scores {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}
		for _, sym := range byName[symName] {
			relPath, err := s.store.FilePathForFileID(sym.FileID)
			if err != nil || relPath == "" {
				continue
			}
			artifacts, err := s.store.FetchFileArtifacts(relPath)
			if err != nil || artifacts == nil {
				continue
			}
			for _, c := range artifacts.Chunks {
				if !overlaps(c.StartLine, c.EndLine, sym.StartLine, sym.EndLine) {
					continue
				}
				if !matchesScope(relPath, artifacts.File.Language, c.Kind, params) {
					continue
				}
				out = append(out, Candidate{
					ChunkID:    c.ChunkID,
					FilePath:   relPath,
					Kind:       c.Kind,
					Content:    c.Content,
					StartLine:  c.StartLine,
					EndLine:    c.EndLine,
					TokenCount: c.TokenEstimate,
					Score:      score,
				})
			}
		}
		if len(out) >= k*3 {
			break
		}
	}

	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	if aStart == 0 || bStart == 0 {
		return false
	}
	return aStart <= bEnd && bStart <= aEnd
}
