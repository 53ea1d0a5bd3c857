package autocomplete

import (
	"context"

	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/filter"
)

// EmployeeStore lists the tenant's employees.
type EmployeeStore interface {
	ListActive(ctx context.Context, tenantID string, f filter.Filters) ([]employee.Employee, error)
}

// ValueCache stores computed completion lists. Implementations report failures as misses.
type ValueCache interface {
	GetValues(ctx context.Context, key string) ([]string, bool)
	SetValues(ctx context.Context, key string, values []string)
}
