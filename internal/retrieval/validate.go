package retrieval

import (
	"fmt"
	"strings"
)

// validated is QueryParams after defaulting and sanitizing: max_tokens
// defaulted and range-checked, unknown kinds dropped, providers intersected with
// the pipeline's enabled set. Warnings collected along the way ride with
// the query through every later step so step 9 can surface them verbatim.
type validated struct {
	params    QueryParams
	providers []string
	warnings  []string
}

func (p *Pipeline) validate(params QueryParams) (*validated, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, fmt.Errorf("%w: query must not be blank", ErrInvalidArgument)
	}

	v := &validated{params: params}

	if v.params.MaxTokens == 0 {
		v.params.MaxTokens = 4000
	}
	if v.params.MaxTokens < minMaxTokens || v.params.MaxTokens > maxMaxTokens {
		return nil, fmt.Errorf("%w: max_tokens must be in [%d, %d], got %d",
			ErrInvalidArgument, minMaxTokens, maxMaxTokens, v.params.MaxTokens)
	}
	if v.params.K <= 0 {
		v.params.K = 20
	}

	if len(v.params.Kinds) > 0 {
		kept := make([]string, 0, len(v.params.Kinds))
		for _, k := range v.params.Kinds {
			if KnownKinds[k] {
				kept = append(kept, k)
			} else {
				v.warnings = append(v.warnings, fmt.Sprintf("unknown kind %q dropped", k))
			}
		}
		v.params.Kinds = kept
	}

	for i, lang := range v.params.Languages {
		v.params.Languages[i] = strings.ToLower(lang)
	}

	v.providers = p.resolveProviders(v.params.Providers, &v.warnings)

	return v, nil
}

// resolveProviders intersects a query's requested provider subset (if any)
// with the pipeline's enabled providers, in the pipeline's deterministic
// registration order so fan-out and fusion iterate identically every run.
func (p *Pipeline) resolveProviders(requested []string, warnings *[]string) []string {
	wanted := make(map[string]bool, len(requested))
	for _, id := range requested {
		wanted[id] = true
	}

	out := make([]string, 0, len(p.order))
	for _, id := range p.order {
		cfg, ok := p.cfg.Providers[id]
		if !ok || !cfg.Enabled {
			continue
		}
		if len(requested) > 0 && !wanted[id] {
			continue
		}
		out = append(out, id)
	}

	if len(requested) > 0 {
		for _, id := range requested {
			if !p.hasProvider(id) {
				*warnings = append(*warnings, fmt.Sprintf("unknown provider %q ignored", id))
			}
		}
	}

	return out
}

func (p *Pipeline) hasProvider(id string) bool {
	_, ok := p.providers[id]
	return ok
}
