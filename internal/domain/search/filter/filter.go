package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
)

// MaxSkills is the maximum number of skills in a single filter.
const MaxSkills = 32

// Filters narrows the employee set before matching.
// All string values are stored trimmed; comparisons are case-insensitive.
type Filters struct {
	department      string
	title           string
	skills          []string
	includeInactive bool
}

// New validates and creates Filters. Skills are deduplicated case-insensitively,
// empty entries dropped, and the result sorted.
func New(department, title string, skills []string, includeInactive bool) (Filters, error) {
	norm := normalizeSkills(skills)
	if len(norm) > MaxSkills {
		return Filters{}, fmt.Errorf("too many skills (max %d)", MaxSkills)
	}
	return Filters{
		department:      strings.TrimSpace(department),
		title:           strings.TrimSpace(title),
		skills:          norm,
		includeInactive: includeInactive,
	}, nil
}

// SplitSkills parses a comma-separated skills parameter.
func SplitSkills(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// Department returns the department filter ("" = any).
func (f Filters) Department() string { return f.department }

// Title returns the title filter ("" = any).
func (f Filters) Title() string { return f.title }

// Skills returns the required skills (sorted, deduplicated).
func (f Filters) Skills() []string { return f.skills }

// IncludeInactive reports whether inactive employees are eligible.
func (f Filters) IncludeInactive() bool { return f.includeInactive }

// IsEmpty reports whether no narrowing filter is set.
func (f Filters) IsEmpty() bool {
	return f.department == "" && f.title == "" && len(f.skills) == 0 && !f.includeInactive
}

// Matches reports whether the employee passes every filter.
// Department is an equality match, title a containment match, and skills require
// every listed skill to be present.
func (f Filters) Matches(e *employee.Employee) bool {
	if !e.Active() && !f.includeInactive {
		return false
	}
	if f.department != "" && !strings.EqualFold(e.Department(), f.department) {
		return false
	}
	if f.title != "" && !strings.Contains(strings.ToLower(e.Title()), strings.ToLower(f.title)) {
		return false
	}
	if len(f.skills) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(e.Skills()))
	for _, s := range e.Skills() {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	for _, want := range f.skills {
		if _, ok := have[strings.ToLower(want)]; !ok {
			return false
		}
	}
	return true
}

func normalizeSkills(skills []string) []string {
	if len(skills) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
