package chunk

import (
	"regexp"
	"strings"
)

var atxHeading = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
var fenceOpen = regexp.MustCompile("^(`{3,}|~{3,})")

type markdownChunker struct {
	opts Options
}

// NewMarkdownChunker builds the markdown chunker (spec.md §4.2.2): split on
// ATX headings, cut out fenced code blocks as their own CODE_BLOCK chunks,
// and split oversize sections at blank lines.
func NewMarkdownChunker(opts Options) Chunker {
	return &markdownChunker{opts: opts.normalized()}
}

func (c *markdownChunker) Strategy() Descriptor {
	return Descriptor{
		ID:                 "markdown",
		DisplayName:        "Markdown section chunker",
		SupportedLanguages: []string{"markdown"},
		DefaultMaxTokens:   c.opts.MaxTokens,
		Description:        "Splits on ATX headings and fenced code blocks.",
	}
}

type mdBlock struct {
	isFence   bool
	fenceLine string
	label     string
	startLine int
	endLine   int
	lines     []string
}

func (c *markdownChunker) Chunk(content, filePath, language string) ([]Chunk, error) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil, nil
	}

	blocks := splitMarkdownBlocks(lines)

	var out []Chunk
	ordinal := 0
	for _, b := range blocks {
		if b.isFence {
			out = append(out, Chunk{
				Ordinal:       ordinal,
				Kind:          KindCodeBlock,
				StartLine:     b.startLine,
				EndLine:       b.endLine,
				Content:       strings.Join(b.lines, "\n"),
				Summary:       b.fenceLine,
				TokenEstimate: c.opts.Estimate(strings.Join(b.lines, "\n")),
			})
			ordinal++
			continue
		}

		text := strings.Join(b.lines, "\n")
		if c.opts.Estimate(text) <= c.opts.MaxTokens {
			out = append(out, Chunk{
				Ordinal:       ordinal,
				Kind:          KindMarkdownSection,
				StartLine:     b.startLine,
				EndLine:       b.endLine,
				Content:       text,
				Summary:       b.label,
				TokenEstimate: c.opts.Estimate(text),
			})
			ordinal++
			continue
		}

		pieces := splitOversizeLines(b.lines, c.opts)
		for i, piece := range pieces {
			pieceLines := b.lines[piece[0] : piece[1]+1]
			pieceText := strings.Join(pieceLines, "\n")
			out = append(out, Chunk{
				Ordinal:       ordinal,
				Kind:          KindMarkdownSection,
				StartLine:     b.startLine + piece[0],
				EndLine:       b.startLine + piece[1],
				Content:       pieceText,
				Summary:       partLabel(b.label, i, len(pieces)),
				TokenEstimate: c.opts.Estimate(pieceText),
			})
			ordinal++
		}
	}
	return out, nil
}

// splitMarkdownBlocks walks the document once, cutting fenced code blocks
// out as their own blocks and accumulating everything else into
// heading-delimited sections.
func splitMarkdownBlocks(lines []string) []mdBlock {
	var blocks []mdBlock
	var cur mdBlock
	curLabel := ""
	curStart := 1
	haveSection := false

	// flush trims trailing blank lines from the accumulated section (a
	// heading or fence boundary always starts a fresh section on the next
	// line, so any blank run right before the boundary belongs to neither).
	flush := func() {
		if !haveSection || len(cur.lines) == 0 {
			return
		}
		trimmed := cur.lines
		for len(trimmed) > 0 && strings.TrimSpace(trimmed[len(trimmed)-1]) == "" {
			trimmed = trimmed[:len(trimmed)-1]
		}
		if len(trimmed) == 0 {
			cur = mdBlock{}
			haveSection = false
			return
		}
		cur.lines = trimmed
		cur.label = curLabel
		cur.startLine = curStart
		cur.endLine = curStart + len(trimmed) - 1
		blocks = append(blocks, cur)
		cur = mdBlock{}
		haveSection = false
	}

	i := 0
	for i < len(lines) {
		line := lines[i]

		if m := fenceOpen.FindString(line); m != "" {
			flush()
			fenceStart := i + 1
			j := i + 1
			for j < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[j]), m) {
				j++
			}
			end := j
			if end >= len(lines) {
				end = len(lines) - 1 // unterminated fence: take the rest of the file
			}
			fenceLines := lines[i : end+1]
			blocks = append(blocks, mdBlock{
				isFence:   true,
				fenceLine: strings.TrimSpace(line),
				startLine: fenceStart,
				endLine:   end + 1,
				lines:     fenceLines,
			})
			i = end + 1
			curStart = i + 1
			haveSection = false
			continue
		}

		if m := atxHeading.FindStringSubmatch(line); m != nil {
			flush()
			curLabel = strings.TrimSpace(m[2])
			curStart = i + 1
			haveSection = true
			cur.lines = append(cur.lines, line)
			i++
			continue
		}

		if !haveSection {
			haveSection = true
			curStart = i + 1
			if curLabel == "" {
				curLabel = firstNonEmptyLine(lines[i:])
			}
		}
		cur.lines = append(cur.lines, line)
		i++
	}
	flush()
	return blocks
}

func firstNonEmptyLine(lines []string) string {
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t != "" {
			if len(t) > 60 {
				t = t[:60]
			}
			return t
		}
	}
	return ""
}
