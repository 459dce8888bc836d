package chunk

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// treeNode is the structured-tree shape both YAML and JSON chunk against,
// per spec.md §4.2.4: object → one chunk per top-level key (recursing into
// oversize values as path.child / path[i]); array → one chunk per element;
// scalar root → a single "root" chunk; parse failure → a single "root"
// chunk with the unparsed content (Open Question resolved in favor of this
// fallback over an empty list).
type treeChunker struct {
	opts   Options
	id     string
	name   string
	decode func([]byte) (any, error)
	encode func(any) (string, error)
}

// NewYAMLChunker builds the YAML tree chunker.
func NewYAMLChunker(opts Options) Chunker {
	return &treeChunker{
		opts: opts.normalized(),
		id:   "yaml",
		name: "YAML tree chunker",
		decode: func(b []byte) (any, error) {
			var v any
			err := yaml.Unmarshal(b, &v)
			return v, err
		},
		encode: func(v any) (string, error) {
			b, err := yaml.Marshal(v)
			return string(b), err
		},
	}
}

// NewJSONChunker builds the JSON tree chunker.
func NewJSONChunker(opts Options) Chunker {
	return &treeChunker{
		opts: opts.normalized(),
		id:   "json",
		name: "JSON tree chunker",
		decode: func(b []byte) (any, error) {
			var v any
			d := json.NewDecoder(strings.NewReader(string(b)))
			d.UseNumber()
			err := d.Decode(&v)
			return v, err
		},
		encode: func(v any) (string, error) {
			b, err := json.MarshalIndent(v, "", "  ")
			return string(b), err
		},
	}
}

func (c *treeChunker) Strategy() Descriptor {
	return Descriptor{
		ID:                 c.id,
		DisplayName:        c.name,
		SupportedLanguages: []string{c.id},
		DefaultMaxTokens:   c.opts.MaxTokens,
		Description:        "Structured-tree chunker: one chunk per top-level key/element.",
	}
}

func (c *treeChunker) blockKind() Kind {
	if c.id == "json" {
		return KindJSONBlock
	}
	return KindYAMLBlock
}

func (c *treeChunker) Chunk(content, filePath, language string) ([]Chunk, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	value, err := c.decode([]byte(content))
	if err != nil {
		return []Chunk{{
			Ordinal:       0,
			Kind:          c.blockKind(),
			Content:       content,
			Summary:       "root",
			TokenEstimate: c.opts.Estimate(content),
		}}, nil
	}

	var out []Chunk
	ordinal := 0

	switch v := value.(type) {
	case map[string]any:
		keys := sortedKeys(v)
		for _, k := range keys {
			ordinal = c.emit(&out, ordinal, k, v[k])
		}
	case []any:
		for i, elem := range v {
			ordinal = c.emit(&out, ordinal, fmt.Sprintf("[%d]", i), elem)
		}
	default:
		text, encErr := c.encode(value)
		if encErr != nil {
			text = content
		}
		out = append(out, Chunk{
			Ordinal:       0,
			Kind:          c.blockKind(),
			Content:       strings.TrimSpace(text),
			Summary:       "root",
			TokenEstimate: c.opts.Estimate(text),
		})
	}

	return out, nil
}

func (c *treeChunker) emit(out *[]Chunk, ordinal int, path string, value any) int {
	text, err := c.encode(value)
	if err != nil {
		text = fmt.Sprintf("%v", value)
	}
	text = strings.TrimSpace(text)

	if c.opts.Estimate(text) <= c.opts.MaxTokens {
		*out = append(*out, Chunk{
			Ordinal:       ordinal,
			Kind:          c.blockKind(),
			Content:       text,
			Summary:       path,
			TokenEstimate: c.opts.Estimate(text),
		})
		return ordinal + 1
	}

	switch v := value.(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			ordinal = c.emit(out, ordinal, path+"."+k, v[k])
		}
		return ordinal
	case []any:
		for i, elem := range v {
			ordinal = c.emit(out, ordinal, fmt.Sprintf("%s[%d]", path, i), elem)
		}
		return ordinal
	default:
		// Oversize scalar (typically a large string): split by lines.
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			*out = append(*out, Chunk{
				Ordinal:       ordinal,
				Kind:          c.blockKind(),
				Content:       line,
				Summary:       fmt.Sprintf("%s[%d]", path, i),
				TokenEstimate: c.opts.Estimate(line),
			})
			ordinal++
		}
		return ordinal
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
