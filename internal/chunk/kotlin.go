package chunk

import (
	"regexp"
	"strings"
)

var (
	ktPackageLine = regexp.MustCompile(`^(package\s|import\s)`)
	ktTypeDecl    = regexp.MustCompile(`^(?:[A-Za-z]+\s+)*(class|interface|object|enum\s+class)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	ktFunDecl     = regexp.MustCompile(`^(?:[A-Za-z]+\s+)*fun\s+([A-Za-z_][A-Za-z0-9_]*)`)
	ktValVarDecl  = regexp.MustCompile(`^(?:[A-Za-z]+\s+)*(val|var)\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

type kotlinChunker struct {
	opts Options
}

// NewKotlinChunker builds the Kotlin chunker (spec.md §4.2.1): top-level
// class/interface/object, enum class, fun, and val/var with modifier
// prefixes.
func NewKotlinChunker(opts Options) Chunker {
	return &kotlinChunker{opts: opts.normalized()}
}

func (c *kotlinChunker) Strategy() Descriptor {
	return Descriptor{
		ID:                 "kotlin",
		DisplayName:        "Kotlin structural chunker",
		SupportedLanguages: []string{"kotlin"},
		DefaultMaxTokens:   c.opts.MaxTokens,
		Description:        "Brace-depth heuristic over top-level declarations.",
	}
}

func (c *kotlinChunker) Chunk(content, filePath, language string) ([]Chunk, error) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil, nil
	}

	headerEnd, headerText := headerUnit(lines, func(t string) bool { return ktPackageLine.MatchString(t) })

	var out []Chunk
	ordinal := 0
	if headerEnd > 0 && c.opts.Estimate(headerText) <= 200 {
		out = append(out, Chunk{
			Ordinal:       ordinal,
			Kind:          KindCodeHeader,
			StartLine:     1,
			EndLine:       headerEnd,
			Content:       headerText,
			TokenEstimate: c.opts.Estimate(headerText),
		})
		ordinal++
	}

	i := headerEnd
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])

		if m := ktTypeDecl.FindStringSubmatch(t); m != nil {
			kind := KindCodeClass
			if m[1] == "interface" {
				kind = KindCodeInterface
			} else if strings.HasPrefix(m[1], "enum") {
				kind = KindCodeEnum
			}
			end := declEnd(lines, i)
			for _, p := range c.maybeSplit(lines, i+1, end+1, m[2]) {
				out = append(out, Chunk{
					Ordinal: ordinal, Kind: kind, StartLine: p.startLine, EndLine: p.endLine,
					Content: p.content, Summary: p.label, TokenEstimate: c.opts.Estimate(p.content),
				})
				ordinal++
			}
			i = end + 1
			continue
		}

		if m := ktFunDecl.FindStringSubmatch(t); m != nil {
			end := declEnd(lines, i)
			for _, p := range c.maybeSplit(lines, i+1, end+1, m[1]) {
				out = append(out, Chunk{
					Ordinal: ordinal, Kind: KindCodeFunction, StartLine: p.startLine, EndLine: p.endLine,
					Content: p.content, Summary: p.label, TokenEstimate: c.opts.Estimate(p.content),
				})
				ordinal++
			}
			i = end + 1
			continue
		}

		if m := ktValVarDecl.FindStringSubmatch(t); m != nil {
			end := declEnd(lines, i)
			for _, p := range c.maybeSplit(lines, i+1, end+1, m[2]) {
				out = append(out, Chunk{
					Ordinal: ordinal, Kind: KindCodeBlock, StartLine: p.startLine, EndLine: p.endLine,
					Content: p.content, Summary: p.label, TokenEstimate: c.opts.Estimate(p.content),
				})
				ordinal++
			}
			i = end + 1
			continue
		}

		i++
	}

	return out, nil
}

func (c *kotlinChunker) maybeSplit(lines []string, start, end int, label string) []structPiece {
	if start < 1 || start > len(lines) {
		return nil
	}
	if end > len(lines) {
		end = len(lines)
	}
	unitLines := lines[start-1 : end]
	text := strings.Join(unitLines, "\n")
	if c.opts.Estimate(text) <= c.opts.MaxTokens {
		return []structPiece{{startLine: start, endLine: end, content: text, label: label}}
	}
	pieces := splitOversizeLines(unitLines, c.opts)
	out := make([]structPiece, 0, len(pieces))
	for i, p := range pieces {
		pieceLines := unitLines[p[0] : p[1]+1]
		out = append(out, structPiece{
			startLine: start + p[0], endLine: start + p[1],
			content: strings.Join(pieceLines, "\n"), label: partLabel(label, i, len(pieces)),
		})
	}
	return out
}

// declEnd finds where a declaration starting at line i ends: through the
// matching closing brace if one opens on this "statement" (scanning until a
// terminator to allow multi-line signatures), or just this line if it's a
// brace-less one-liner.
func declEnd(lines []string, i int) int {
	openLine := -1
	for j := i; j < len(lines); j++ {
		if strings.Contains(lines[j], "{") {
			openLine = j
			break
		}
		if strings.Contains(lines[j], ";") || (j > i && strings.TrimSpace(lines[j]) == "") {
			return j
		}
	}
	if openLine < 0 {
		return i
	}
	return findBlockEnd(lines, openLine, false)
}
