package search

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/match"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/similarity"
)

// minReversePartialLen is the shortest field value that may match as a substring of the term.
const minReversePartialLen = 3

// fieldValue is one searchable value of an employee.
type fieldValue struct {
	field string
	value string // lower-cased
}

// fieldValues lists the searchable values; each skill is its own value under "skills".
func fieldValues(e *employee.Employee) []fieldValue {
	out := make([]fieldValue, 0, 5+len(e.Skills()))
	add := func(field, v string) {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, fieldValue{field: field, value: v})
		}
	}
	add(match.FieldFirstName, e.FirstName())
	add(match.FieldLastName, e.LastName())
	add(match.FieldEmail, e.Email())
	add(match.FieldTitle, e.Title())
	add(match.FieldDepartment, e.Department())
	for _, s := range e.Skills() {
		add(match.FieldSkills, s)
	}
	return out
}

// classify compares one lower-cased term with one lower-cased field value.
func classify(term, value string, threshold float64) (match.Type, float64) {
	if term == value {
		return match.Exact, 1
	}
	if strings.Contains(value, term) ||
		(utf8.RuneCountInString(value) >= minReversePartialLen && strings.Contains(term, value)) {
		return match.Partial, match.PartialScore
	}
	// A zero similarity never counts, even with a zero threshold.
	if sim := similarity.Best(term, value); sim > 0 && sim >= threshold {
		return match.Fuzzy, sim
	}
	return match.None, 0
}

// matchEmployee evaluates the terms against every field of e.
// Each term must match at least one field; any field may satisfy any term.
func matchEmployee(e *employee.Employee, terms []string, phrase string, threshold float64) (match.Result, bool) {
	res := match.NewResult(e.ID())
	values := fieldValues(e)

	for _, term := range terms {
		termMatched := false
		for _, fv := range values {
			t, score := classify(term, fv.value, threshold)
			if t == match.None {
				continue
			}
			res.Record(fv.field, t, score)
			termMatched = true
		}
		if !termMatched {
			return match.Result{}, false
		}
	}

	// "software engineer" equal to a whole title is an exact match on that field.
	if len(terms) > 1 {
		for _, fv := range values {
			if fv.value == phrase {
				res.Record(fv.field, match.Exact, 1)
			}
		}
	}
	return res, res.Matched()
}
