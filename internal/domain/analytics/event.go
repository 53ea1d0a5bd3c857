package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/dirsearch/internal/domain/search/filter"
)

// SearchEvent describes one served search for the analytics collaborator.
type SearchEvent struct {
	ID              string        `json:"id"`
	TenantID        string        `json:"tenantId"`
	UserID          string        `json:"userId"`
	Query           string        `json:"query"`
	ResultCount     int           `json:"resultCount"`
	ExecutionTimeMs int64         `json:"executionTimeMs"`
	Filters         FilterSummary `json:"filters"`
	Cached          bool          `json:"cached"`
	OccurredAt      time.Time     `json:"occurredAt"`
}

// FilterSummary is the serializable form of the filters used in a search.
type FilterSummary struct {
	Department      string   `json:"department,omitempty"`
	Title           string   `json:"title,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	IncludeInactive bool     `json:"includeInactive,omitempty"`
}

// NewSearchEvent creates an event with a fresh ID.
func NewSearchEvent(
	tenantID, userID, query string, resultCount int,
	executionTime time.Duration, f filter.Filters, cached bool, now time.Time,
) SearchEvent {
	return SearchEvent{
		ID:              uuid.NewString(),
		TenantID:        tenantID,
		UserID:          userID,
		Query:           query,
		ResultCount:     resultCount,
		ExecutionTimeMs: executionTime.Milliseconds(),
		Filters: FilterSummary{
			Department:      f.Department(),
			Title:           f.Title(),
			Skills:          f.Skills(),
			IncludeInactive: f.IncludeInactive(),
		},
		Cached:     cached,
		OccurredAt: now.UTC(),
	}
}

// ZeroResult reports whether the search found nothing.
func (e *SearchEvent) ZeroResult() bool { return e.ResultCount == 0 }
