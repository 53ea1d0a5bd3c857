package search

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/similarity"
)

const (
	// DefaultSuggestionThreshold is the minimum similarity for a "did you mean" value.
	DefaultSuggestionThreshold = 0.5
	// DefaultMaxSuggestions bounds the suggestion list.
	DefaultMaxSuggestions = 5
)

type suggestion struct {
	value string
	sim   float64
}

// suggest proposes distinct corpus values similar to the normalized query.
// The corpus is first names, last names, titles and departments. For values that differ
// only in case, the lexicographically smallest spelling is shown.
func suggest(query string, employees []employee.Employee, threshold float64, limit int) []string {
	if query == "" || limit <= 0 {
		return []string{}
	}

	corpus := make(map[string]string)
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		k := strings.ToLower(v)
		if cur, ok := corpus[k]; !ok || v < cur {
			corpus[k] = v
		}
	}
	for i := range employees {
		e := &employees[i]
		add(e.FirstName())
		add(e.LastName())
		add(e.Title())
		add(e.Department())
	}

	found := make([]suggestion, 0)
	for lower, display := range corpus {
		if sim := similarity.Best(query, lower); sim >= threshold {
			found = append(found, suggestion{value: display, sim: sim})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].sim != found[j].sim {
			return found[i].sim > found[j].sim
		}
		return compareFold(found[i].value, found[j].value) < 0
	})

	out := make([]string, 0, min(limit, len(found)))
	for _, s := range found[:min(limit, len(found))] {
		out = append(out, s.value)
	}
	return out
}
