package search

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/spendwise/internal/model"
)

const (
	minQueryLen        = 2
	defaultSuggestions = 5
	maxTypoDistance    = 2
)

// Suggestions returns up to limit distinct descriptions and categories that
// contain query, followed by categories within a small edit distance of it.
// Queries shorter than two characters yield nothing.
func Suggestions(list []model.Transaction, query string, limit int) []string {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLen {
		return nil
	}
	if limit <= 0 {
		limit = defaultSuggestions
	}
	q := strings.ToLower(query)

	var out []string
	seen := make(map[string]bool)
	add := func(s string) bool {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
		return len(out) >= limit
	}

	for _, t := range list {
		if strings.Contains(strings.ToLower(t.Description), q) && add(t.Description) {
			return out
		}
		if strings.Contains(strings.ToLower(t.Category), q) && add(t.Category) {
			return out
		}
	}
	for _, t := range list {
		if seen[t.Category] {
			continue
		}
		if levenshtein.ComputeDistance(q, strings.ToLower(t.Category)) <= maxTypoDistance && add(t.Category) {
			return out
		}
	}
	return out
}

// Closest returns the known category nearest to name when name is not
// already known but is within a small edit distance of one. Case-only
// differences count as a match.
func Closest(known []string, name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", false
	}
	best, bestDist := "", maxTypoDistance+1
	for _, k := range known {
		if k == name {
			return "", false
		}
		d := levenshtein.ComputeDistance(n, strings.ToLower(k))
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// Preset is a named example pattern offered to users.
type Preset struct {
	Name          string
	Pattern       string
	CaseSensitive bool
}

// Presets returns the built-in example patterns.
func Presets() []Preset {
	return []Preset{
		{Name: "Cents present", Pattern: `\.\d{2}\b`, CaseSensitive: true},
		{Name: "Beverage keywords", Pattern: `(coffee|tea|juice|soda|water)`},
		{Name: "Food items", Pattern: `(lunch|dinner|breakfast|snack|meal)`},
		{Name: "Transport", Pattern: `(bus|taxi|uber|train|metro)`},
		{Name: "Books/Education", Pattern: `(book|textbook|course|class|tuition)`},
	}
}
