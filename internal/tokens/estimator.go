// Package tokens implements the heuristic token estimator (C1).
//
// Estimate never touches a real tokenizer: it is a single-pass character
// scan calibrated per model family, with content adjustments for CJK and
// symbol density. It must stay allocation-light and safe to call from many
// goroutines concurrently (retrieval providers and chunkers call it on
// every chunk).
package tokens

import (
	"fmt"
	"math"
	"strings"

	"github.com/maypok86/otter"
)

// Model identifies a model family with its own chars-per-token ratio.
type Model string

const (
	Default Model = "default"
	OpenAI  Model = "openai"
	Claude  Model = "claude"
	Codex   Model = "codex"
)

const (
	minRatio = 1.5
	maxRatio = 8.0

	// cacheMaxInputLen bounds what the secondary blended estimator will
	// cache; larger inputs are estimated directly without a cache lookup.
	cacheMaxInputLen = 120_000
)

var defaultRatios = map[Model]float64{
	Default: 4.0,
	OpenAI:  4.0,
	Claude:  4.3,
	Codex:   3.3,
}

// Estimator estimates token counts for arbitrary UTF-8 text. The zero value
// is not usable; construct with New or NewDefault.
type Estimator struct {
	ratios map[Model]float64
	cache  otter.Cache[cacheKey, int]
}

type cacheKey struct {
	model     Model
	length    int
	wordCount int
}

// NewDefault builds an Estimator with the built-in base ratios.
func NewDefault() *Estimator {
	e, err := New(defaultRatios)
	if err != nil {
		// defaultRatios are all > 0 by construction; this can never fail.
		panic(fmt.Sprintf("tokens: invalid built-in ratios: %v", err))
	}
	return e
}

// New builds an Estimator from a caller-supplied ratio table. Ratios not
// present in overrides fall back to the built-in defaults. Every override
// must be strictly positive.
func New(overrides map[Model]float64) (*Estimator, error) {
	ratios := make(map[Model]float64, len(defaultRatios))
	for m, r := range defaultRatios {
		ratios[m] = r
	}
	for m, r := range overrides {
		if r <= 0 {
			return nil, fmt.Errorf("tokens: ratio override for %q must be > 0, got %v", m, r)
		}
		ratios[m] = r
	}

	cache, err := otter.MustBuilder[cacheKey, int](50_000).
		CollectStats().
		Cost(func(cacheKey, int) uint32 { return 1 }).
		Build()
	if err != nil {
		return nil, fmt.Errorf("tokens: failed to build estimate cache: %w", err)
	}

	return &Estimator{ratios: ratios, cache: cache}, nil
}

// densities is the result of a single pass over the input text.
type densities struct {
	length    int
	letters   int
	cjk       int
	newlines  int
	punct     int
	whitespace int
	symbols   int
}

// Estimate returns the estimated token count for text under model. It never
// fails: an unknown model falls back to Default's ratio.
func (e *Estimator) Estimate(text string, model Model) int {
	if len(text) == 0 {
		return 0
	}
	normalized := normalizeLineEndings(text)
	d := scan(normalized)
	ratio := e.ratioFor(model, d)
	return int(math.Ceil(float64(d.length) / ratio))
}

// EstimateCached is the hot-path variant: it memoizes the estimate keyed by
// (model, length, word_count) for inputs up to cacheMaxInputLen bytes.
// Larger inputs bypass the cache and are estimated directly, since their
// (length, word_count) key is unlikely to recur and would only evict more
// useful entries.
func (e *Estimator) EstimateCached(text string, model Model) int {
	if len(text) == 0 {
		return 0
	}
	if len(text) > cacheMaxInputLen {
		return e.Estimate(text, model)
	}

	key := cacheKey{model: model, length: len(text), wordCount: wordCount(text)}
	if v, ok := e.cache.Get(key); ok {
		return v
	}

	v := e.Estimate(text, model)
	e.cache.Set(key, v)
	return v
}

func (e *Estimator) ratioFor(model Model, d densities) float64 {
	base, ok := e.ratios[model]
	if !ok {
		base = e.ratios[Default]
	}
	if d.length == 0 {
		return clampRatio(base)
	}

	cjkDensity := float64(d.cjk) / float64(d.length)
	ratio := base

	switch {
	case cjkDensity > 0.3:
		ratio = math.Min(ratio, 1.7)
	case cjkDensity > 0.1:
		t := (cjkDensity - 0.1) / 0.2
		ratio = base + t*(1.7-base)
	}

	punctDensity := float64(d.punct) / float64(d.length)
	newlineDensity := float64(d.newlines) / float64(d.length)
	whitespaceDensity := float64(d.whitespace) / float64(d.length)
	symbolDensity := float64(d.symbols) / float64(d.length)
	nonLetterShare := 1 - float64(d.letters)/float64(d.length)

	switch model {
	case Codex:
		reduction := math.Min(0.10, symbolDensity*0.5+nonLetterShare*0.05)
		ratio *= 1 - reduction
	case Claude:
		reduction := math.Min(0.05, punctDensity*0.5+newlineDensity*0.5)
		ratio *= 1 - reduction
	default:
		reduction := math.Min(0.03, punctDensity*0.3+newlineDensity*0.3+whitespaceDensity*0.05)
		ratio *= 1 - reduction
	}

	return clampRatio(ratio)
}

func clampRatio(r float64) float64 {
	if r < minRatio {
		return minRatio
	}
	if r > maxRatio {
		return maxRatio
	}
	return r
}

func normalizeLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

func scan(s string) densities {
	d := densities{length: len(s)}
	for _, r := range s {
		switch {
		case isCJK(r):
			d.cjk++
			d.letters++
		case isLetter(r):
			d.letters++
		case r == '\n':
			d.newlines++
			d.whitespace++
		case r == ' ' || r == '\t':
			d.whitespace++
		case strings.ContainsRune(".,;:!?'\"", r):
			d.punct++
		case r >= 0x21 && r <= 0x7E:
			d.symbols++
		}
	}
	return d
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isCJK reports whether r falls in the common CJK unified ideograph,
// hiragana, katakana, or hangul syllable ranges.
func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3040 && r <= 0x30FF: // Hiragana + Katakana
		return true
	case r >= 0xAC00 && r <= 0xD7A3: // Hangul syllables
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK Extension A
		return true
	default:
		return false
	}
}

func wordCount(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if isSpace {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}
