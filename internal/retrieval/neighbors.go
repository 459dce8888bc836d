package retrieval

// expandNeighbors implements step 6: for every selected chunk, pull in up
// to window preceding and following chunks from the same file by ordinal,
// each scored at half the anchor's fused score. Neighbors ride along as
// plain fusedChunks so dedup/packing treat them uniformly; if a neighbor
// was already an independent hit, dedup keeps whichever fused score is
// higher.
func (p *Pipeline) expandNeighbors(chunks []fusedChunk, window int) []fusedChunk {
	if window <= 0 {
		return chunks
	}

	out := make([]fusedChunk, 0, len(chunks))
	seen := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		out = append(out, c)
		seen[c.chunkID] = true
	}

	byFile := map[string][]fusedChunk{}
	for _, c := range chunks {
		byFile[c.filePath] = append(byFile[c.filePath], c)
	}

	for filePath, anchors := range byFile {
		artifacts, err := p.store.FetchFileArtifacts(filePath)
		if err != nil || artifacts == nil {
			continue
		}

		ordinalOf := map[string]int{}
		for _, ch := range artifacts.Chunks {
			ordinalOf[ch.ChunkID] = ch.Ordinal
		}

		for _, anchor := range anchors {
			ord, ok := ordinalOf[anchor.chunkID]
			if !ok {
				continue
			}
			for _, ch := range artifacts.Chunks {
				delta := ch.Ordinal - ord
				if delta == 0 || delta < -window || delta > window {
					continue
				}
				if seen[ch.ChunkID] {
					continue
				}
				seen[ch.ChunkID] = true
				out = append(out, fusedChunk{
					chunkID:        ch.ChunkID,
					filePath:       filePath,
					kind:           ch.Kind,
					content:        ch.Content,
					startLine:      ch.StartLine,
					endLine:        ch.EndLine,
					tokenCount:     ch.TokenEstimate,
					score:          anchor.score * 0.5,
					providers:      map[string]float64{},
					isNeighbor:     true,
					neighborParent: anchor.chunkID,
					neighborScore:  anchor.score * 0.5,
				})
			}
		}
	}

	return out
}
