package chunk

import (
	"regexp"
	"strings"
)

var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// splitLines splits s into lines without dropping the trailing empty
// element that strings.Split leaves when s ends in "\n" — chunkers work in
// 1-based line numbers and need the count to match len(strings.Split(s,
// "\n")) exactly for start/end line bookkeeping.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// splitOversizeLines cuts oversize declarations/sections into consecutive
// line-bounded pieces, each ≤ opts.MaxTokens, with a trailing overlap of the
// previous piece's lines (default 15% of the piece, at least 1 line) so
// cross-piece context survives the split. Prefers breaking at blank lines.
func splitOversizeLines(text []string, opts Options) [][2]int {
	// text holds the content lines of the unit being split. Returns
	// [][2]int of (startIndexInclusive, endIndexInclusive) into text.
	n := len(text)
	if n == 0 {
		return nil
	}

	var pieces [][2]int
	start := 0
	for start < n {
		end := start
		estimate := 0
		lastBlank := -1
		for end < n {
			lineTok := opts.Estimate(text[end])
			if estimate+lineTok > opts.MaxTokens && end > start {
				break
			}
			estimate += lineTok
			if strings.TrimSpace(text[end]) == "" {
				lastBlank = end
			}
			end++
		}
		if end == start {
			end = start + 1 // a single line already exceeds budget; take it anyway
		}
		// Prefer breaking at the last blank line seen, if it isn't the very
		// first line of this piece (else there's nothing to gain).
		if lastBlank > start && lastBlank < end-1 && end < n {
			end = lastBlank + 1
		}
		pieces = append(pieces, [2]int{start, end - 1})

		if end >= n {
			break
		}

		overlap := int(float64(end-start) * opts.OverlapPercent)
		if overlap < 1 {
			overlap = 1
		}
		next := end - overlap
		if next <= start {
			next = start + 1 // guards against a non-advancing cursor
		}
		start = next
	}
	return pieces
}

// partLabel formats the label for piece i (0-based) of n oversize pieces.
func partLabel(name string, i, n int) string {
	if n <= 1 {
		return name
	}
	return name + " (part " + itoa(i+1) + "/" + itoa(n) + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// splitParagraphs splits text on runs of 2+ newlines, returning each
// paragraph alongside the 1-based start line of its first line.
func splitParagraphs(text string) []paragraphSpan {
	lines := splitLines(text)
	var spans []paragraphSpan
	var cur []string
	curStart := 1
	blankRun := 0

	flush := func(endLine int) {
		if len(cur) == 0 {
			return
		}
		spans = append(spans, paragraphSpan{startLine: curStart, endLine: endLine, lines: cur})
		cur = nil
	}

	for i, line := range lines {
		lineNo := i + 1
		if strings.TrimSpace(line) == "" {
			blankRun++
			if blankRun == 1 {
				flush(lineNo - 1)
			}
			continue
		}
		if blankRun > 0 {
			curStart = lineNo
		}
		blankRun = 0
		cur = append(cur, line)
	}
	flush(len(lines))
	return spans
}

type paragraphSpan struct {
	startLine int
	endLine   int
	lines     []string
}

// splitBySentenceThenLine splits a paragraph's lines into sentence-bounded
// groups that fit opts.MaxTokens, falling back to per-line splitting when
// the paragraph has no sentence boundary at all. A single sentence that is
// itself over budget is kept whole as its own group; it is not split by
// line.
func splitBySentenceThenLine(p paragraphSpan, opts Options) []paragraphSpan {
	text := strings.Join(p.lines, "\n")
	if opts.Estimate(text) <= opts.MaxTokens {
		return []paragraphSpan{p}
	}

	sentences := sentenceBoundary.Split(text, -1)
	if len(sentences) <= 1 {
		return splitLinesAsParagraphs(p, opts)
	}

	var out []paragraphSpan
	var group []string
	groupTokens := 0
	lineCursor := p.startLine
	groupStart := lineCursor
	for _, s := range sentences {
		if s == "" {
			continue
		}
		tok := opts.Estimate(s)
		if groupTokens > 0 && groupTokens+tok > opts.MaxTokens {
			out = append(out, paragraphSpan{startLine: groupStart, endLine: lineCursor - 1, lines: group})
			group = nil
			groupTokens = 0
			groupStart = lineCursor
		}
		group = append(group, s)
		groupTokens += tok
		lineCursor += strings.Count(s, "\n") + 1
	}
	if len(group) > 0 {
		out = append(out, paragraphSpan{startLine: groupStart, endLine: p.endLine, lines: group})
	}
	return out
}

func splitLinesAsParagraphs(p paragraphSpan, opts Options) []paragraphSpan {
	var out []paragraphSpan
	for i, line := range p.lines {
		out = append(out, paragraphSpan{
			startLine: p.startLine + i,
			endLine:   p.startLine + i,
			lines:     []string{line},
		})
	}
	return out
}
