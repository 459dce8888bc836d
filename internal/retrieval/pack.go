package retrieval

import (
	"github.com/ctxcore/ctxcore/internal/store"
	"github.com/ctxcore/ctxcore/internal/tokens"
)

// pack implements step 8: walk chunks in descending fused-score order,
// greedily accepting each while the running total stays within
// max_tokens. One overflowing snippet may still be admitted if it would
// push the total no more than 25% past the remaining budget, then packing
// stops regardless of what's left.
func (p *Pipeline) pack(chunks []fusedChunk, maxTokens int) ([]store.ContextSnippet, int, bool) {
	var (
		out        []store.ContextSnippet
		used       int
		overflowed bool
	)

	for _, c := range chunks {
		tokenCount := c.tokenCount
		if tokenCount <= 0 && p.estimator != nil {
			tokenCount = p.estimator.Estimate(c.content, tokens.Default)
		}

		remaining := maxTokens - used
		if remaining <= 0 {
			break
		}

		if tokenCount > remaining {
			if overflowed || float64(tokenCount-remaining) > 0.25*float64(remaining) {
				break
			}
			out = append(out, toSnippet(c))
			used += tokenCount
			overflowed = true
			break
		}

		out = append(out, toSnippet(c))
		used += tokenCount
	}

	return out, used, overflowed
}

func toSnippet(c fusedChunk) store.ContextSnippet {
	metadata := map[string]any{
		"providers": c.providers,
	}
	if c.isNeighbor {
		metadata["neighbor"] = true
		metadata["neighbor_of"] = c.neighborParent
	}

	return store.ContextSnippet{
		ChunkID:   c.chunkID,
		Score:     clamp01(c.score),
		FilePath:  c.filePath,
		Kind:      c.kind,
		Text:      c.content,
		Language:  c.language,
		StartLine: c.startLine,
		EndLine:   c.endLine,
		Metadata:  metadata,
	}
}
