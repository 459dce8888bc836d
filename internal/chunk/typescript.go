package chunk

import (
	"regexp"
	"strings"
)

var (
	tsImportLine = regexp.MustCompile(`^(import\s|export\s+\*|export\s+\{)`)
	tsExportDecl = regexp.MustCompile(`^export\s+(default\s+)?(abstract\s+)?(class|interface|enum|function|async\s+function|const|let|var)\b`)
)

type typeScriptChunker struct {
	opts Options
}

// NewTypeScriptChunker builds the TypeScript/JavaScript chunker (spec.md
// §4.2.1): brace-depth block detection that tracks quotes, backtick
// template literals (including ${...} interpolation), and comments so they
// never contribute to depth.
func NewTypeScriptChunker(opts Options) Chunker {
	return &typeScriptChunker{opts: opts.normalized()}
}

func (c *typeScriptChunker) Strategy() Descriptor {
	return Descriptor{
		ID:                 "typescript",
		DisplayName:        "TypeScript/JavaScript structural chunker",
		SupportedLanguages: []string{"typescript", "javascript"},
		DefaultMaxTokens:   c.opts.MaxTokens,
		Description:        "Brace-depth heuristic over exported declarations.",
	}
}

func (c *typeScriptChunker) Chunk(content, filePath, language string) ([]Chunk, error) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil, nil
	}

	headerEnd, headerText := headerUnit(lines, func(t string) bool { return tsImportLine.MatchString(t) })

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
		m := tsExportDecl.FindStringSubmatch(t)
		if m == nil {
			i++
			continue
		}

		declStart := i
		// Preserve a leading JSDoc block as part of the chunk.
		if declStart > headerEnd && strings.HasSuffix(strings.TrimSpace(lines[declStart-1]), "*/") {
			j := declStart - 1
			for j >= headerEnd && !strings.Contains(lines[j], "/**") {
				j--
			}
			if j >= headerEnd {
				declStart = j
			}
		}

		openLine := findOpenBrace(lines, i)
		semiLine := findSemicolonLine(lines, i)
		var end int
		switch {
		case openLine >= 0 && (semiLine < 0 || openLine <= semiLine):
			// A brace opens before (or at) the first statement-terminating
			// semicolon: this is a block declaration (class/interface/
			// function body), not a single-line statement.
			end = findBlockEnd(lines, openLine, true)
		case semiLine >= 0:
			end = semiLine
		default:
			end = i
		}
		if end < declStart {
			end = declStart
		}

		kind := classifyTS(m[3])
		name := tsDeclName(t)

		pieces := c.maybeSplit(lines, declStart+1, end+1, name)
		for _, p := range pieces {
			out = append(out, Chunk{
				Ordinal:       ordinal,
				Kind:          kind,
				StartLine:     p.startLine,
				EndLine:       p.endLine,
				Content:       p.content,
				Summary:       p.label,
				TokenEstimate: c.opts.Estimate(p.content),
			})
			ordinal++
		}
		i = end + 1
	}

	return out, nil
}

func (c *typeScriptChunker) maybeSplit(lines []string, start, end int, label string) []structPiece {
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
			startLine: start + p[0],
			endLine:   start + p[1],
			content:   strings.Join(pieceLines, "\n"),
			label:     partLabel(label, i, len(pieces)),
		})
	}
	return out
}

func classifyTS(keyword string) Kind {
	switch {
	case strings.HasPrefix(keyword, "class"):
		return KindCodeClass
	case strings.HasPrefix(keyword, "interface"):
		return KindCodeInterface
	case strings.HasPrefix(keyword, "enum"):
		return KindCodeEnum
	case strings.Contains(keyword, "function"):
		return KindCodeFunction
	default:
		return KindCodeBlock
	}
}

var tsDeclNameRe = regexp.MustCompile(`\b(?:class|interface|enum|function)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
var tsConstNameRe = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)

func tsDeclName(line string) string {
	if m := tsDeclNameRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if m := tsConstNameRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return "anonymous"
}

// findSemicolonLine returns the line index of the first ';' at or after
// from, scanning at most until the next blank line (a single-statement
// declaration never spans a paragraph break). Returns -1 if none found.
func findSemicolonLine(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.Contains(lines[i], ";") {
			return i
		}
		if i > from && strings.TrimSpace(lines[i]) == "" {
			return -1
		}
	}
	return -1
}
