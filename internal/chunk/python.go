package chunk

import (
	"regexp"
	"strings"
)

var (
	pyDefLine   = regexp.MustCompile(`^(async\s+def|def)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	pyClassLine = regexp.MustCompile(`^class\s+([A-Za-z_][A-Za-z0-9_]*)\s*[\(:]`)
	pyDecorator = regexp.MustCompile(`^@[A-Za-z_]`)
)

type pythonChunker struct {
	opts Options
}

// NewPythonChunker builds the Python structural chunker (spec.md §4.2.1):
// module/function/class docstrings, decorators, indentation-based block
// termination with tabs counted as 4 spaces.
func NewPythonChunker(opts Options) Chunker {
	return &pythonChunker{opts: opts.normalized()}
}

func (c *pythonChunker) Strategy() Descriptor {
	return Descriptor{
		ID:                 "python",
		DisplayName:        "Python structural chunker",
		SupportedLanguages: []string{"python"},
		DefaultMaxTokens:   c.opts.MaxTokens,
		Description:        "Indentation-based def/class/docstring extraction.",
	}
}

func (c *pythonChunker) Chunk(content, filePath, language string) ([]Chunk, error) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil, nil
	}

	var out []Chunk
	ordinal := 0
	i := 0

	// Module docstring: the first non-blank line, if a triple-quoted string.
	j := 0
	for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
		j++
	}
	if j < len(lines) {
		if end, text, ok := readTripleQuoted(lines, j); ok {
			out = append(out, Chunk{
				Ordinal:       ordinal,
				Kind:          KindDocstring,
				StartLine:     j + 1,
				EndLine:       end + 1,
				Content:       text,
				Summary:       "Module docstring",
				TokenEstimate: c.opts.Estimate(text),
			})
			ordinal++
			i = end + 1
		}
	}

	for i < len(lines) {
		line := lines[i]
		indent := pyIndent(line)
		trimmed := strings.TrimSpace(line)

		if indent == 0 && (pyDecorator.MatchString(trimmed) || pyDefLine.MatchString(trimmed) || pyClassLine.MatchString(trimmed)) {
			unitStart := i
			for i < len(lines) && pyDecorator.MatchString(strings.TrimSpace(lines[i])) {
				i++
			}
			if i >= len(lines) {
				break
			}

			isClass := pyClassLine.MatchString(strings.TrimSpace(lines[i]))
			name := pyUnitName(strings.TrimSpace(lines[i]), isClass)
			i++

			bodyIndent := -1
			bodyStart := i
			k := i
			for k < len(lines) {
				if strings.TrimSpace(lines[k]) == "" {
					k++
					continue
				}
				ind := pyIndent(lines[k])
				if bodyIndent < 0 {
					if ind <= 0 {
						break // no indented body at all
					}
					bodyIndent = ind
				}
				if ind < bodyIndent {
					break
				}
				k++
			}
			unitEnd := k // exclusive index of first line NOT in the block

			// Emit the nested docstring, if the first statement is one.
			bodyFirst := bodyStart
			for bodyFirst < unitEnd && strings.TrimSpace(lines[bodyFirst]) == "" {
				bodyFirst++
			}
			if bodyFirst < unitEnd {
				if end, text, ok := readTripleQuoted(lines, bodyFirst); ok && end < unitEnd {
					kindLabel := "Function"
					if isClass {
						kindLabel = "Class"
					}
					out = append(out, Chunk{
						Ordinal:       ordinal,
						Kind:          KindDocstring,
						StartLine:     bodyFirst + 1,
						EndLine:       end + 1,
						Content:       text,
						Summary:       kindLabel + " " + name + " docstring",
						TokenEstimate: c.opts.Estimate(text),
					})
					ordinal++
				}
			}

			unitLines := lines[unitStart:unitEnd]
			unitText := strings.Join(unitLines, "\n")
			kind := KindCodeFunction
			label := "Function " + name
			if isClass {
				kind = KindCodeClass
				label = "Class " + name
			}

			if c.opts.Estimate(unitText) <= c.opts.MaxTokens {
				out = append(out, Chunk{
					Ordinal:       ordinal,
					Kind:          kind,
					StartLine:     unitStart + 1,
					EndLine:       unitEnd,
					Content:       unitText,
					Summary:       label,
					TokenEstimate: c.opts.Estimate(unitText),
				})
				ordinal++
			} else {
				pieces := splitOversizeLines(unitLines, c.opts)
				for pi, piece := range pieces {
					pieceLines := unitLines[piece[0] : piece[1]+1]
					pieceText := strings.Join(pieceLines, "\n")
					out = append(out, Chunk{
						Ordinal:       ordinal,
						Kind:          kind,
						StartLine:     unitStart + 1 + piece[0],
						EndLine:       unitStart + 1 + piece[1],
						Content:       pieceText,
						Summary:       partLabel(label, pi, len(pieces)),
						TokenEstimate: c.opts.Estimate(pieceText),
					})
					ordinal++
				}
			}

			i = unitEnd
			continue
		}

		i++
	}

	return out, nil
}

// pyIndent returns the leading-whitespace width of line, counting tabs as 4
// spaces, per spec.md §4.2.1.
func pyIndent(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return 0 // all-whitespace line
}

func pyUnitName(headerLine string, isClass bool) string {
	if isClass {
		if m := pyClassLine.FindStringSubmatch(headerLine); m != nil {
			return m[1]
		}
		return "unknown"
	}
	if m := pyDefLine.FindStringSubmatch(headerLine); m != nil {
		return m[2]
	}
	return "unknown"
}

// readTripleQuoted reports whether lines[start] begins a triple-quoted
// string literal and, if so, returns the 0-based index of its closing line
// and the literal's full text (including the quote delimiters).
func readTripleQuoted(lines []string, start int) (end int, text string, ok bool) {
	trimmed := strings.TrimSpace(lines[start])
	var quote string
	switch {
	case strings.HasPrefix(trimmed, `"""`):
		quote = `"""`
	case strings.HasPrefix(trimmed, "'''"):
		quote = "'''"
	default:
		return 0, "", false
	}

	rest := trimmed[len(quote):]
	if idx := strings.Index(rest, quote); idx >= 0 {
		return start, lines[start], true // single-line docstring
	}

	for e := start + 1; e < len(lines); e++ {
		if strings.Contains(lines[e], quote) {
			return e, strings.Join(lines[start:e+1], "\n"), true
		}
	}
	// Unterminated: treat the rest of the file as the literal rather than
	// looping forever looking for a close that never comes.
	return len(lines) - 1, strings.Join(lines[start:], "\n"), true
}
