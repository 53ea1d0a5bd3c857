package dirsearch

import (
	"context"
	"time"

	"github.com/kailas-cloud/dirsearch/internal/domain/analytics"
	domac "github.com/kailas-cloud/dirsearch/internal/domain/autocomplete"
	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/result"
)

// Employee is one directory record.
type Employee struct {
	ID         string
	TenantID   string
	FirstName  string
	LastName   string
	Email      string
	Title      string
	Department string
	Skills     []string
	Active     bool
}

// EmployeeSource supplies a tenant's employees when the directory does not live in Postgres.
// Inactive records may be included; the client filters them.
type EmployeeSource interface {
	ListEmployees(ctx context.Context, tenantID string) ([]Employee, error)
}

// SearchParams are the inputs of one search. Zero values select the defaults.
type SearchParams struct {
	Query           string
	Department      string
	Title           string
	Skills          []string
	IncludeInactive bool
	Page            int
	PageSize        int
	FuzzyThreshold  *float64
	Weights         *Weights
}

// Weights replace all three ranking multipliers. Defaults: exact 1.0, fuzzy 0.7, partial 0.4.
type Weights struct {
	Exact   float64 `json:"exactMatch"`
	Fuzzy   float64 `json:"fuzzyMatch"`
	Partial float64 `json:"partialMatch"`
}

// Hit is one ranked employee.
type Hit struct {
	Employee
	Score     float64
	MatchType string // "exact", "partial" or "fuzzy"
}

// SearchResult is one page of ranked employees.
type SearchResult struct {
	Hits          []Hit
	Total         int
	Page          int
	PageSize      int
	HasMore       bool
	Query         string
	ExecutionTime time.Duration
	// Suggestions are names close to the query, set only when nothing matched.
	Suggestions []string
	Cached      bool
}

// Kind selects which field values Autocomplete draws from.
type Kind = domac.Kind

// Autocomplete kinds.
const (
	Names       = domac.Names
	Titles      = domac.Titles
	Departments = domac.Departments
	Skills      = domac.Skills
	All         = domac.All
)

// SearchEvent is emitted after every served search.
type SearchEvent = analytics.SearchEvent

// EventSink receives search events. Record runs on a background worker.
type EventSink interface {
	Record(ctx context.Context, e SearchEvent) error
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ctx context.Context, e SearchEvent) error

// Record calls f.
func (f EventSinkFunc) Record(ctx context.Context, e SearchEvent) error { return f(ctx, e) }

// sourceAdapter exposes an EmployeeSource as the services' employee store.
type sourceAdapter struct {
	src EmployeeSource
}

func (a sourceAdapter) ListActive(ctx context.Context, tenantID string, f filter.Filters) ([]employee.Employee, error) {
	list, err := a.src.ListEmployees(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]employee.Employee, 0, len(list))
	for i := range list {
		e := toDomainEmployee(&list[i])
		if f.Matches(&e) {
			out = append(out, e)
		}
	}
	return out, nil
}

type sinkAdapter struct {
	sink EventSink
}

func (a sinkAdapter) Record(ctx context.Context, e *analytics.SearchEvent) error {
	return a.sink.Record(ctx, *e)
}

func toDomainEmployee(e *Employee) employee.Employee {
	return employee.Reconstruct(employee.Fields{
		ID:         e.ID,
		TenantID:   e.TenantID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Title:      e.Title,
		Department: e.Department,
		Skills:     e.Skills,
		Active:     e.Active,
	})
}

func fromDomainEmployee(e *employee.Employee) Employee {
	return Employee{
		ID:         e.ID(),
		TenantID:   e.TenantID(),
		FirstName:  e.FirstName(),
		LastName:   e.LastName(),
		Email:      e.Email(),
		Title:      e.Title(),
		Department: e.Department(),
		Skills:     e.Skills(),
		Active:     e.Active(),
	}
}

func fromDomainResult(r *result.Result) *SearchResult {
	hits := make([]Hit, 0, len(r.Entries()))
	for _, en := range r.Entries() {
		emp := en.Employee()
		hits = append(hits, Hit{
			Employee:  fromDomainEmployee(&emp),
			Score:     en.Score(),
			MatchType: string(en.MatchType()),
		})
	}
	suggestions := r.Suggestions()
	if suggestions == nil {
		suggestions = []string{}
	}
	return &SearchResult{
		Hits:          hits,
		Total:         r.Total(),
		Page:          r.Page(),
		PageSize:      r.PageSize(),
		HasMore:       r.HasMore(),
		Query:         r.Query(),
		ExecutionTime: r.ExecutionTime(),
		Suggestions:   suggestions,
		Cached:        r.Cached(),
	}
}
