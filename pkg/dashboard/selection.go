package dashboard

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sajari/fuzzy"

	"github.com/Sumatoshi-tech/ghpulse/pkg/ghapi"
)

const (
	maxSuggestions = 5
	fuzzyDepth     = 3
)

// ErrRepositoryNotFound reports a repository name that matches none of the account's.
var ErrRepositoryNotFound = errors.New("repository not found")

// RepositoryNotFoundError names the missing repository and the closest existing ones.
type RepositoryNotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *RepositoryNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s: %q", ErrRepositoryNotFound, e.Name)
	}

	return fmt.Sprintf("%s: %q (did you mean %s?)", ErrRepositoryNotFound, e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *RepositoryNotFoundError) Is(target error) bool {
	return target == ErrRepositoryNotFound
}

// SelectTopRepositories returns up to n non-fork repositories, most recently updated first.
func SelectTopRepositories(repos []ghapi.Repository, n int) []ghapi.Repository {
	own := make([]ghapi.Repository, 0, len(repos))

	for _, r := range repos {
		if !r.Fork {
			own = append(own, r)
		}
	}

	SortByUpdated(own)

	if n >= 0 && len(own) > n {
		own = own[:n]
	}

	return own
}

// SortByUpdated orders repositories by update time, newest first, keeping the
// input order among equal times.
func SortByUpdated(repos []ghapi.Repository) {
	slices.SortStableFunc(repos, func(a, b ghapi.Repository) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}

// MostStarred returns the non-fork repository with the most stars. Ties keep the
// earlier repository. ok is false when there is none.
func MostStarred(repos []ghapi.Repository) (ghapi.Repository, bool) {
	var (
		best  ghapi.Repository
		found bool
	)

	for _, r := range repos {
		if r.Fork {
			continue
		}

		if !found || r.Stars > best.Stars {
			best = r
			found = true
		}
	}

	return best, found
}

// FindRepository looks name up among repos, ignoring case and accepting either the
// short or the owner-qualified name. A miss returns a *RepositoryNotFoundError
// carrying spelling suggestions.
func FindRepository(repos []ghapi.Repository, name string) (ghapi.Repository, error) {
	for _, r := range repos {
		if strings.EqualFold(r.Name, name) || strings.EqualFold(r.FullName, name) {
			return r, nil
		}
	}

	return ghapi.Repository{}, &RepositoryNotFoundError{Name: name, Suggestions: suggest(repos, name)}
}

func suggest(repos []ghapi.Repository, name string) []string {
	if len(repos) == 0 {
		return nil
	}

	originals := make(map[string]string, len(repos))
	words := make([]string, 0, len(repos))

	for _, r := range repos {
		key := strings.ToLower(r.Name)
		if _, seen := originals[key]; seen {
			continue
		}

		originals[key] = r.Name
		words = append(words, key)
	}

	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(fuzzyDepth)
	model.Train(words)

	var out []string

	for _, s := range model.Suggestions(strings.ToLower(name), false) {
		if orig, ok := originals[s]; ok && len(out) < maxSuggestions {
			out = append(out, orig)
		}
	}

	return out
}

// LanguageShare is the number of repositories written mainly in one language.
type LanguageShare struct {
	Language     string  `json:"language"     yaml:"language"`
	Repositories int     `json:"repositories" yaml:"repositories"`
	Percent      float64 `json:"percent"      yaml:"percent"`
}

// LanguageBreakdown counts repositories per primary language, most used first.
// Repositories without a detected language are left out.
func LanguageBreakdown(repos []ghapi.Repository) []LanguageShare {
	counts := make(map[string]int)
	total := 0

	for _, r := range repos {
		if r.Language == "" {
			continue
		}

		counts[r.Language]++
		total++
	}

	shares := make([]LanguageShare, 0, len(counts))

	for lang, n := range counts {
		shares = append(shares, LanguageShare{
			Language:     lang,
			Repositories: n,
			Percent:      percentOf(n, total),
		})
	}

	slices.SortFunc(shares, func(a, b LanguageShare) int {
		if c := cmp.Compare(b.Repositories, a.Repositories); c != 0 {
			return c
		}

		return cmp.Compare(a.Language, b.Language)
	})

	return shares
}

func percentOf(n, total int) float64 {
	const hundred = 100

	if total == 0 {
		return 0
	}

	return float64(n) * hundred / float64(total)
}
