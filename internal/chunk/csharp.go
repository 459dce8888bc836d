package chunk

import (
	"regexp"
	"strings"
)

var (
	csUsingLine = regexp.MustCompile(`^using\s`)
	csTypeDecl  = regexp.MustCompile(`\b(class|struct|interface|enum|record)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	csPropLike  = regexp.MustCompile(`\{\s*get;|\{\s*get\s*;|=>\s*`)
)

type csharpChunker struct {
	opts Options
}

// NewCSharpChunker builds the C# chunker (spec.md §4.2.1): detects
// class|struct|interface|enum|record and captures the whole type body as
// one chunk (split further only if it exceeds MaxTokens), the same
// whole-body treatment the Kotlin and TypeScript brace-heuristic
// chunkers use. The member regexes below only fire for a declaration
// sitting outside any enclosing type, classifying it as a constructor
// (name-matches-type), property-like CODE_BLOCK (`{ get; set; }`/`=>`),
// or method.
func NewCSharpChunker(opts Options) Chunker {
	return &csharpChunker{opts: opts.normalized()}
}

func (c *csharpChunker) Strategy() Descriptor {
	return Descriptor{
		ID:                 "csharp",
		DisplayName:        "C# structural chunker",
		SupportedLanguages: []string{"csharp"},
		DefaultMaxTokens:   c.opts.MaxTokens,
		Description:        "Brace-depth heuristic over type declarations.",
	}
}

func (c *csharpChunker) Chunk(content, filePath, language string) ([]Chunk, error) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil, nil
	}

	headerEnd, headerText := headerUnit(lines, func(t string) bool { return csUsingLine.MatchString(t) })

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
	var enclosingType string
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])

		if m := csTypeDecl.FindStringSubmatch(t); m != nil {
			enclosingType = m[2]
			openLine := findOpenBrace(lines, i)
			if openLine < 0 {
				i++
				continue
			}
			end := findBlockEnd(lines, openLine, false)
			kind := typeKindFor(m[1])
			label := m[2]
			for _, p := range c.maybeSplit(lines, i+1, end+1, label) {
				out = append(out, Chunk{
					Ordinal: ordinal, Kind: kind, StartLine: p.startLine, EndLine: p.endLine,
					Content: p.content, Summary: p.label, TokenEstimate: c.opts.Estimate(p.content),
				})
				ordinal++
			}
			i = end + 1
			continue
		}

		if m := csMember(t, enclosingType); m != "" {
			openLine := findOpenBrace(lines, i)
			kind := KindCodeMethod
			if m == "constructor" {
				kind = KindCodeConstructor
			}
			if csPropLike.MatchString(t) {
				kind = KindCodeBlock
			}
			var end int
			if openLine >= 0 {
				end = findBlockEnd(lines, openLine, false)
			} else {
				end = i
			}
			for _, p := range c.maybeSplit(lines, i+1, end+1, csMemberName(t)) {
				out = append(out, Chunk{
					Ordinal: ordinal, Kind: kind, StartLine: p.startLine, EndLine: p.endLine,
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

func (c *csharpChunker) maybeSplit(lines []string, start, end int, label string) []structPiece {
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

func typeKindFor(keyword string) Kind {
	switch keyword {
	case "interface":
		return KindCodeInterface
	case "enum":
		return KindCodeEnum
	default:
		return KindCodeClass
	}
}

var csMethodLike = regexp.MustCompile(`^(?:public|private|protected|internal|static|virtual|override|sealed|async|\s)*[A-Za-z_<>,\[\]\. ]+\s([A-Za-z_][A-Za-z0-9_]*)\s*\([^;]*\)\s*(\{|=>|$)`)

// csMember reports "constructor" or "method" when line declares a member,
// matching the constructor by name-equals-enclosing-type heuristic spec.md
// §4.2.1 calls for; "" when line isn't a member declaration.
func csMember(line, enclosingType string) string {
	m := csMethodLike.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	if enclosingType != "" && m[1] == enclosingType {
		return "constructor"
	}
	return "method"
}

func csMemberName(line string) string {
	if m := csMethodLike.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return "member"
}
