package chunk

import (
	"regexp"
	"strings"
)

var (
	sqlRoutineStart = regexp.MustCompile(`(?i)^CREATE\s+(?:OR\s+REPLACE\s+)?(FUNCTION|PROCEDURE|TRIGGER)\b`)
	sqlClauseLabel  = regexp.MustCompile(`(?i)^(CREATE(?:\s+OR\s+REPLACE)?\s+(?:TABLE|VIEW|INDEX|FUNCTION|PROCEDURE|TRIGGER|SCHEMA|SEQUENCE|TYPE)|ALTER\s+TABLE|DROP\s+TABLE|INSERT\s+INTO|UPDATE|DELETE\s+FROM|SELECT)\b`)
	sqlIdentifier   = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_."]*`)
)

type sqlChunker struct {
	opts Options
}

// NewSQLChunker builds the routine-aware SQL chunker (spec.md §4.2.3,
// Open Question resolved in favor of this variant): statements are split on
// ';' outside routine bodies, tracking BEGIN/END depth once a
// CREATE FUNCTION/PROCEDURE/TRIGGER is seen so a routine's internal
// semicolons never split it.
func NewSQLChunker(opts Options) Chunker {
	return &sqlChunker{opts: opts.normalized()}
}

func (c *sqlChunker) Strategy() Descriptor {
	return Descriptor{
		ID:                 "sql",
		DisplayName:        "SQL statement chunker",
		SupportedLanguages: []string{"sql"},
		DefaultMaxTokens:   c.opts.MaxTokens,
		Description:        "Routine-depth-aware statement splitter.",
	}
}

var beginWord = regexp.MustCompile(`(?i)\bBEGIN\b`)
var endWord = regexp.MustCompile(`(?i)\bEND\b`)

func (c *sqlChunker) Chunk(content, filePath, language string) ([]Chunk, error) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil, nil
	}

	var out []Chunk
	ordinal := 0

	stmtStart := 0
	inRoutine := false
	routineDepth := 0
	var commentPrefix []string

	flushStatement := func(endIdx int) {
		// drop leading blank lines from the statement span
		start := stmtStart
		for start <= endIdx && strings.TrimSpace(lines[start]) == "" {
			start++
		}
		if start > endIdx {
			stmtStart = endIdx + 1
			return
		}
		stmtLines := lines[start : endIdx+1]
		text := strings.Join(append(append([]string{}, commentPrefix...), stmtLines...), "\n")
		label := sqlLabel(firstNonBlank(stmtLines))
		out = append(out, Chunk{
			Ordinal:       ordinal,
			Kind:          KindSQLStatement,
			StartLine:     start + 1 - len(commentPrefix),
			EndLine:       endIdx + 1,
			Content:       text,
			Summary:       label,
			TokenEstimate: c.opts.Estimate(text),
		})
		ordinal++
		commentPrefix = nil
		stmtStart = endIdx + 1
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !inRoutine && (strings.HasPrefix(trimmed, "--") || strings.HasPrefix(trimmed, "/*")) && allLinesFromStmtStartAreComments(lines, stmtStart, i) {
			continue // still accumulating a comment prefix before the next statement
		}

		if !inRoutine && sqlRoutineStart.MatchString(trimmed) {
			inRoutine = true
			routineDepth = 0
		}

		if inRoutine {
			routineDepth += len(beginWord.FindAllString(line, -1))
			routineDepth -= len(endWord.FindAllString(line, -1))
		}

		if strings.Contains(line, ";") {
			if inRoutine {
				if routineDepth <= 0 {
					inRoutine = false
					flushStatement(i)
				}
				continue
			}
			flushStatement(i)
		}
	}
	if stmtStart < len(lines) {
		hasContent := false
		for _, l := range lines[stmtStart:] {
			if strings.TrimSpace(l) != "" {
				hasContent = true
				break
			}
		}
		if hasContent {
			flushStatement(len(lines) - 1)
		}
	}

	return out, nil
}

func allLinesFromStmtStartAreComments(lines []string, start, upto int) bool {
	for i := start; i < upto; i++ {
		t := strings.TrimSpace(lines[i])
		if t != "" && !strings.HasPrefix(t, "--") && !strings.HasPrefix(t, "/*") && !strings.HasPrefix(t, "*") {
			return false
		}
	}
	return true
}

func firstNonBlank(lines []string) string {
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			return t
		}
	}
	return ""
}

// sqlLabel formats "<TYPE> <name>" where TYPE is the uppercased clause and
// name the first identifier following it; falls back to the first token
// (≤20 chars) when the clause pattern doesn't match.
func sqlLabel(stmt string) string {
	m := sqlClauseLabel.FindStringSubmatch(stmt)
	if m == nil {
		fields := strings.Fields(stmt)
		if len(fields) == 0 {
			return ""
		}
		tok := fields[0]
		if len(tok) > 20 {
			tok = tok[:20]
		}
		return tok
	}
	clause := strings.ToUpper(collapseSpace(m[1]))
	rest := stmt[len(m[0]):]
	name := sqlIdentifier.FindString(strings.TrimSpace(rest))
	if name == "" {
		return clause
	}
	return clause + " " + name
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
