package retrieval

import "math"

// mmrSelect implements step 5: greedy maximal marginal relevance. Each
// round picks the chunk maximizing lambda*score - (1-lambda)*maxSim(selected),
// where sim is cosine similarity over each chunk's per-provider score
// vector (two chunks found by the same providers with similar scores are
// "similar"; a chunk found by a completely different provider mix is
// maximally diverse from what's already selected). Bounded by k.
func mmrSelect(chunks []fusedChunk, lambda float64, k int) []fusedChunk {
	if k <= 0 || k > len(chunks) {
		k = len(chunks)
	}
	if len(chunks) == 0 {
		return nil
	}

	remaining := make([]int, len(chunks))
	for i := range chunks {
		remaining[i] = i
	}

	var selected []fusedChunk
	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		bestScore := math.Inf(-1)
		bestPos := -1

		for pos, idx := range remaining {
			maxSim := 0.0
			for _, s := range selected {
				if sim := cosineSim(chunks[idx].providers, s.providers); sim > maxSim {
					maxSim = sim
				}
			}
			mmr := lambda*chunks[idx].score - (1-lambda)*maxSim
			if mmr > bestScore {
				bestScore = mmr
				bestIdx = idx
				bestPos = pos
			}
		}

		selected = append(selected, chunks[bestIdx])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	return selected
}

// cosineSim computes cosine similarity between two provider-id -> score
// maps, treating missing keys as zero. Sparse by construction since most
// chunk pairs share only a couple of providers.
func cosineSim(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for id, va := range a {
		normA += va * va
		if vb, ok := b[id]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
