package chunk

import "strings"

type plaintextChunker struct {
	opts Options
}

// NewPlaintextChunker builds the fallback chunker (spec.md §4.2.5): split on
// paragraph boundaries, then sentence, then line for anything over budget.
func NewPlaintextChunker(opts Options) Chunker {
	return &plaintextChunker{opts: opts.normalized()}
}

func (c *plaintextChunker) Strategy() Descriptor {
	return Descriptor{
		ID:                 "plaintext",
		DisplayName:        "Plaintext paragraph chunker",
		SupportedLanguages: []string{"plaintext"},
		DefaultMaxTokens:   c.opts.MaxTokens,
		Description:        "Fallback chunker for unregistered extensions.",
	}
}

func (c *plaintextChunker) Chunk(content, filePath, language string) ([]Chunk, error) {
	normalized := normalizeText(content)
	if strings.TrimSpace(normalized) == "" {
		return nil, nil
	}

	paragraphs := splitParagraphs(normalized)
	var out []Chunk
	ordinal := 0
	for _, p := range paragraphs {
		text := strings.Join(p.lines, "\n")
		if c.opts.Estimate(text) <= c.opts.MaxTokens {
			out = append(out, Chunk{
				Ordinal:       ordinal,
				Kind:          KindParagraph,
				StartLine:     p.startLine,
				EndLine:       p.endLine,
				Content:       text,
				TokenEstimate: c.opts.Estimate(text),
			})
			ordinal++
			continue
		}
		for _, piece := range splitBySentenceThenLine(p, c.opts) {
			pieceText := strings.Join(piece.lines, "\n")
			out = append(out, Chunk{
				Ordinal:       ordinal,
				Kind:          KindParagraph,
				StartLine:     piece.startLine,
				EndLine:       piece.endLine,
				Content:       pieceText,
				TokenEstimate: c.opts.Estimate(pieceText),
			})
			ordinal++
		}
	}
	return out, nil
}

// normalizeText applies the upstream normalization spec.md §4.2 requires for
// converted Word/PDF text flowing through the plaintext chunker: CR→LF, NUL
// stripped, consecutive LFs collapsed to a single paragraph break.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\x00", "")
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
