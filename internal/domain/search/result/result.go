package result

import (
	"time"

	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/match"
)

// Entry is a single ranked search hit.
type Entry struct {
	employee  employee.Employee
	score     float64
	matchType match.Type
}

// NewEntry creates a ranked entry.
func NewEntry(e employee.Employee, score float64, t match.Type) Entry {
	return Entry{employee: e, score: score, matchType: t}
}

// Employee returns the read-only employee projection.
func (e *Entry) Employee() employee.Employee { return e.employee }

// Score returns the final ranking score.
func (e *Entry) Score() float64 { return e.score }

// MatchType returns the best classification among the matched fields.
func (e *Entry) MatchType() match.Type { return e.matchType }

// Result is one page of search results plus metadata.
type Result struct {
	entries       []Entry
	total         int
	page          int
	pageSize      int
	query         string
	executionTime time.Duration
	suggestions   []string
	cached        bool
}

// New creates a search result. Nil slices are normalized to empty ones.
func New(
	entries []Entry, total, page, pageSize int,
	query string, executionTime time.Duration, suggestions []string,
) Result {
	if entries == nil {
		entries = []Entry{}
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return Result{
		entries:       entries,
		total:         total,
		page:          page,
		pageSize:      pageSize,
		query:         query,
		executionTime: executionTime,
		suggestions:   suggestions,
	}
}

// Empty returns a zero-hit result for the given page parameters.
func Empty(page, pageSize int, query string) Result {
	return New(nil, 0, page, pageSize, query, 0, nil)
}

// Entries returns the ranked hits on this page.
func (r *Result) Entries() []Entry { return r.entries }

// Total returns the number of matches before pagination.
func (r *Result) Total() int { return r.total }

// Page returns the 1-based page number.
func (r *Result) Page() int { return r.page }

// PageSize returns the page size.
func (r *Result) PageSize() int { return r.pageSize }

// HasMore reports whether further pages exist.
func (r *Result) HasMore() bool {
	if r.total <= 0 || r.pageSize <= 0 || r.page < 1 {
		return false
	}
	// Page p covers entries up to p*pageSize; compare by division to avoid overflow.
	return r.page <= (r.total-1)/r.pageSize
}

// Query returns the query text as supplied by the caller.
func (r *Result) Query() string { return r.query }

// ExecutionTime returns the wall-clock time spent serving the request.
func (r *Result) ExecutionTime() time.Duration { return r.executionTime }

// Suggestions returns "did you mean" alternatives (only when Total is 0).
func (r *Result) Suggestions() []string { return r.suggestions }

// Cached reports whether the result was served from cache.
func (r *Result) Cached() bool { return r.cached }

// WithRequestMeta returns a copy stamped with the current request's query,
// timing and cache provenance.
func (r Result) WithRequestMeta(query string, executionTime time.Duration, cached bool) Result {
	r.query = query
	r.executionTime = executionTime
	r.cached = cached
	return r
}
