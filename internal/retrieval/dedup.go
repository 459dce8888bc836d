package retrieval

// dedupe implements step 7: key (chunk_id, file_path), keep the higher
// fused score, merge provider maps. Neighbor-expansion can rediscover a
// chunk that was already an independent hit; whichever entry scored
// higher wins, and its provider set absorbs the other's so metadata stays
// complete.
func dedupe(chunks []fusedChunk) []fusedChunk {
	byKey := map[string]*fusedChunk{}
	order := make([]string, 0, len(chunks))

	for _, c := range chunks {
		key := c.chunkID + "\x00" + c.filePath
		existing, ok := byKey[key]
		if !ok {
			cp := c
			byKey[key] = &cp
			order = append(order, key)
			continue
		}

		for id, score := range c.providers {
			if cur, has := existing.providers[id]; !has || score > cur {
				existing.providers[id] = score
			}
		}
		if c.score > existing.score {
			existing.score = c.score
			existing.isNeighbor = c.isNeighbor
			existing.neighborParent = c.neighborParent
		}
	}

	out := make([]fusedChunk, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}
