package provider

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ctxcore/ctxcore/internal/store"
)

// GitHistory is the optional git_history RetrievalProvider: boosts chunks
// belonging to files touched recently and frequently, on the theory that
// actively-changing code is more often what a query is about. Grounded on
// the pack's only go-git commit-walking example, generalized from ticket-ID
// message matching to a pure recency/frequency file score.
type GitHistory struct {
	store     *store.Store
	repo      *git.Repository
	maxCommit int
}

// NewGitHistory opens the git repository rooted at repoPath. Returns an
// error if repoPath isn't a git working tree; core.New passes that error
// on and fails construction.
func NewGitHistory(st *store.Store, repoPath string) (*GitHistory, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return &GitHistory{store: st, repo: repo, maxCommit: 500}, nil
}

func (g *GitHistory) ID() string { return "git_history" }

// fileActivity is a file's recency/frequency signal within the walked
// commit window.
type fileActivity struct {
	commits     int
	mostRecent  time.Time
}

func (g *GitHistory) Search(ctx context.Context, params Params) ([]Candidate, error) {
	head, err := g.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	commitIter, err := g.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("walk commit log: %w", err)
	}

	activity := make(map[string]*fileActivity)
	count := 0
	err = commitIter.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if count >= g.maxCommit {
			return errStopWalk
		}
		count++

		stats, err := c.Stats()
		if err != nil {
			return nil
		}
		for _, stat := range stats {
			a := activity[stat.Name]
			if a == nil {
				a = &fileActivity{}
				activity[stat.Name] = a
			}
			a.commits++
			if c.Author.When.After(a.mostRecent) {
				a.mostRecent = c.Author.When
			}
		}
		return nil
	})
	if err != nil && err != errStopWalk && err != context.Canceled {
		return nil, fmt.Errorf("iterate commits: %w", err)
	}

	k := params.K
	if k <= 0 {
		k = 10
	}

	now := time.Now()
	out := make([]Candidate, 0, k)
	fileScope := params
	fileScope.Languages, fileScope.Kinds = nil, nil
	for relPath, a := range activity {
		if !matchesScope(relPath, "", "", fileScope) {
			continue
		}
		score := recencyFrequencyScore(a, now)
		if score <= 0 {
			continue
		}

		artifacts, err := g.store.FetchFileArtifacts(relPath)
		if err != nil || artifacts == nil {
			continue
		}
		for _, c := range artifacts.Chunks {
			if !matchesScope(relPath, artifacts.File.Language, c.Kind, params) {
				continue
			}
			out = append(out, Candidate{
				ChunkID:    c.ChunkID,
				FilePath:   relPath,
				Kind:       c.Kind,
				Content:    c.Content,
				StartLine:  c.StartLine,
				EndLine:    c.EndLine,
				TokenCount: c.TokenEstimate,
				Score:      score,
			})
		}
		if len(out) >= k*3 {
			break
		}
	}
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// recencyFrequencyScore combines commit frequency and recency into one
// [0,1] score: an exponential recency decay with a 30-day half-life,
// scaled up by frequency with diminishing returns.
func recencyFrequencyScore(a *fileActivity, now time.Time) float64 {
	ageDays := now.Sub(a.mostRecent).Hours() / 24
	recency := math.Exp(-ageDays * math.Ln2 / 30)
	frequency := 1 - math.Exp(-float64(a.commits)/5)
	return recency * (0.5 + 0.5*frequency)
}

var errStopWalk = fmt.Errorf("stop commit walk")
