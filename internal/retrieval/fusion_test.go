package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ctxcore/ctxcore/internal/retrieval/provider"
)

func TestFuseNormalizesPerProviderMax(t *testing.T) {
	candidates := []scoredCandidate{
		{providerID: "semantic", candidate: provider.Candidate{ChunkID: "a", Score: 5}},
		{providerID: "semantic", candidate: provider.Candidate{ChunkID: "b", Score: 10}},
	}

	fused := fuse(candidates, []string{"semantic"}, map[string]ProviderConfig{"semantic": {Enabled: true, Weight: 1.0}})

	byID := map[string]fusedChunk{}
	for _, f := range fused {
		byID[f.chunkID] = f
	}
	assert.InDelta(t, 1.0, byID["b"].score, 0.001)
	assert.InDelta(t, 0.5, byID["a"].score, 0.001)
}

func TestFuseSumsWeightedContributionsAcrossProviders(t *testing.T) {
	candidates := []scoredCandidate{
		{providerID: "semantic", candidate: provider.Candidate{ChunkID: "a", Score: 1.0}},
		{providerID: "symbol", candidate: provider.Candidate{ChunkID: "a", Score: 1.0}},
	}
	cfgs := map[string]ProviderConfig{
		"semantic": {Enabled: true, Weight: 0.7},
		"symbol":   {Enabled: true, Weight: 0.3},
	}

	fused := fuse(candidates, []string{"semantic", "symbol"}, cfgs)
	assert.Len(t, fused, 1)
	assert.InDelta(t, 1.0, fused[0].score, 0.001)
	assert.Len(t, fused[0].providers, 2)
}

func TestApplyBoostsAppliesFirstMatchingRuleOnce(t *testing.T) {
	chunks := []fusedChunk{
		{chunkID: "a", filePath: "internal/core/x.go", language: "go", score: 1.0},
	}
	pathBoosts := []BoostRule{{Match: "internal/core/", Factor: 2.0}, {Match: "internal/", Factor: 4.0}}
	langBoosts := []BoostRule{{Match: "go", Factor: 1.5}}

	applyBoosts(chunks, pathBoosts, langBoosts)
	assert.InDelta(t, 3.0, chunks[0].score, 0.001, "first matching path rule (2x) then language rule (1.5x), not the second path rule")
}
