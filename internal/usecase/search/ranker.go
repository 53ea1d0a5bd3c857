package search

import (
	"math"
	"sort"
	"strings"

	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/match"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/request"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/result"
)

const (
	// fieldBoost rewards each matched field beyond the first.
	fieldBoost = 0.05
	// maxFieldBoost caps the total multi-field reward.
	maxFieldBoost = 0.15
	// scorePrecision rounds away float noise so equal scores tie deterministically.
	scorePrecision = 1e6
)

type candidate struct {
	employee employee.Employee
	match    match.Result
}

// score = max over matched fields of weight[type] x fieldScore, plus the multi-field boost.
func score(m *match.Result, w request.Weights) float64 {
	best := 0.0
	for field, s := range m.FieldScores() {
		if v := w.For(m.FieldType(field)) * s; v > best {
			best = v
		}
	}
	extra := len(m.FieldScores()) - 1
	boost := min(float64(max(extra, 0))*fieldBoost, maxFieldBoost)
	return math.Round((best+boost)*scorePrecision) / scorePrecision
}

// rank scores every candidate and sorts by score desc, then lastName, firstName and id asc.
func rank(cands []candidate, w request.Weights) []result.Entry {
	entries := make([]result.Entry, len(cands))
	for i := range cands {
		c := &cands[i]
		entries[i] = result.NewEntry(c.employee, score(&c.match, w), c.match.MatchType())
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return less(&entries[i], &entries[j])
	})
	return entries
}

func less(a, b *result.Entry) bool {
	if a.Score() != b.Score() {
		return a.Score() > b.Score()
	}
	ea, eb := a.Employee(), b.Employee()
	if c := compareFold(ea.LastName(), eb.LastName()); c != 0 {
		return c < 0
	}
	if c := compareFold(ea.FirstName(), eb.FirstName()); c != 0 {
		return c < 0
	}
	return ea.ID() < eb.ID()
}

// compareFold orders case-insensitively, falling back to byte order for a total order.
func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// paginate returns the slice for the 1-based page, after the full sort.
func paginate(entries []result.Entry, offset, pageSize int) []result.Entry {
	if offset < 0 || offset >= len(entries) {
		return []result.Entry{}
	}
	end := offset + min(pageSize, len(entries)-offset)
	return entries[offset:end]
}
