package retrieval

import (
	"strings"

	"github.com/ctxcore/ctxcore/internal/retrieval/provider"
)

// scoredCandidate is one provider's raw contribution, tagged with which
// provider produced it, ahead of fusion.
type scoredCandidate struct {
	providerID string
	candidate  provider.Candidate
}

// fusedChunk is one chunk's fused state as it moves through boost, MMR,
// neighbor expansion, and dedup. providerScores keeps every contributing
// provider's *normalized* score, both for metadata.providers and as the
// vector MMR computes similarity over.
type fusedChunk struct {
	chunkID        string
	filePath       string
	kind           string
	language       string
	content        string
	startLine      int
	endLine        int
	tokenCount     int
	score          float64
	providers      map[string]float64
	isNeighbor     bool
	neighborParent string
	neighborScore  float64
}

// fuse implements step 3: fused = sum(weight_p * normalize_p(raw_score))
// where normalize_p clamps to [0,1] and divides by that provider's max raw
// score for this query, so one provider's scale never dominates another's.
func fuse(candidates []scoredCandidate, activeProviders []string, cfgs map[string]ProviderConfig) []fusedChunk {
	maxByProvider := map[string]float64{}
	for _, sc := range candidates {
		if sc.candidate.Score > maxByProvider[sc.providerID] {
			maxByProvider[sc.providerID] = sc.candidate.Score
		}
	}

	byChunk := map[string]*fusedChunk{}
	order := make([]string, 0, len(candidates))
	for _, sc := range candidates {
		c := sc.candidate
		fc, ok := byChunk[c.ChunkID]
		if !ok {
			fc = &fusedChunk{
				chunkID:    c.ChunkID,
				filePath:   c.FilePath,
				kind:       c.Kind,
				language:   c.Language,
				content:    c.Content,
				startLine:  c.StartLine,
				endLine:    c.EndLine,
				tokenCount: c.TokenCount,
				providers:  map[string]float64{},
			}
			byChunk[c.ChunkID] = fc
			order = append(order, c.ChunkID)
		}

		normalized := clamp01(c.Score)
		if max := maxByProvider[sc.providerID]; max > 0 {
			normalized = clamp01(c.Score / max)
		}

		weight := 1.0
		if cfg, ok := cfgs[sc.providerID]; ok {
			weight = cfg.Weight
		}

		if existing, seen := fc.providers[sc.providerID]; !seen || normalized > existing {
			fc.providers[sc.providerID] = normalized
		}
		fc.score += weight * normalized
	}

	out := make([]fusedChunk, 0, len(order))
	for _, id := range order {
		out = append(out, *byChunk[id])
	}
	return out
}

// applyBoosts implements step 4: multiplicative path-prefix and language
// factors, each applied at most once per chunk (the first matching rule in
// each list wins).
func applyBoosts(chunks []fusedChunk, pathBoosts, langBoosts []BoostRule) {
	for i := range chunks {
		for _, rule := range pathBoosts {
			if strings.HasPrefix(chunks[i].filePath, rule.Match) {
				chunks[i].score *= rule.Factor
				break
			}
		}
		for _, rule := range langBoosts {
			if chunks[i].language == rule.Match {
				chunks[i].score *= rule.Factor
				break
			}
		}
	}
}
