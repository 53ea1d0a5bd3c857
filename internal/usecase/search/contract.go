package search

import (
	"context"

	"github.com/kailas-cloud/dirsearch/internal/domain/analytics"
	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/result"
)

// EmployeeStore lists the tenant's searchable employees.
type EmployeeStore interface {
	ListActive(ctx context.Context, tenantID string, f filter.Filters) ([]employee.Employee, error)
}

// ResultCache stores computed search results. Implementations report failures as misses.
type ResultCache interface {
	GetSearch(ctx context.Context, key string) (result.Result, bool)
	SetSearch(ctx context.Context, key string, r *result.Result)
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}

// EventRecorder accepts analytics events without blocking the caller.
type EventRecorder interface {
	RecordSearchEvent(e *analytics.SearchEvent)
}
