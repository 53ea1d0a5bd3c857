package resultcache

import (
	"time"

	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/match"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/result"
)

// searchDTO is the stored form of a search result.
type searchDTO struct {
	Entries       []entryDTO `json:"entries"`
	Total         int        `json:"total"`
	Page          int        `json:"page"`
	PageSize      int        `json:"pageSize"`
	Query         string     `json:"query"`
	ExecutionTime int64      `json:"executionTimeNs"`
	Suggestions   []string   `json:"suggestions"`
}

type entryDTO struct {
	Employee  employeeDTO `json:"employee"`
	Score     float64     `json:"score"`
	MatchType string      `json:"matchType"`
}

type employeeDTO struct {
	ID         string   `json:"id"`
	TenantID   string   `json:"tenantId"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email,omitempty"`
	Title      string   `json:"title,omitempty"`
	Department string   `json:"department,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Active     bool     `json:"active"`
}

func toDTO(r *result.Result) searchDTO {
	entries := make([]entryDTO, len(r.Entries()))
	for i := range r.Entries() {
		e := &r.Entries()[i]
		emp := e.Employee()
		f := emp.Fields()
		entries[i] = entryDTO{
			Employee: employeeDTO{
				ID:         f.ID,
				TenantID:   f.TenantID,
				FirstName:  f.FirstName,
				LastName:   f.LastName,
				Email:      f.Email,
				Title:      f.Title,
				Department: f.Department,
				Skills:     f.Skills,
				Active:     f.Active,
			},
			Score:     e.Score(),
			MatchType: string(e.MatchType()),
		}
	}
	return searchDTO{
		Entries:       entries,
		Total:         r.Total(),
		Page:          r.Page(),
		PageSize:      r.PageSize(),
		Query:         r.Query(),
		ExecutionTime: int64(r.ExecutionTime()),
		Suggestions:   r.Suggestions(),
	}
}

func (d *searchDTO) toDomain() result.Result {
	entries := make([]result.Entry, len(d.Entries))
	for i, e := range d.Entries {
		emp := employee.Reconstruct(employee.Fields{
			ID:         e.Employee.ID,
			TenantID:   e.Employee.TenantID,
			FirstName:  e.Employee.FirstName,
			LastName:   e.Employee.LastName,
			Email:      e.Employee.Email,
			Title:      e.Employee.Title,
			Department: e.Employee.Department,
			Skills:     e.Employee.Skills,
			Active:     e.Employee.Active,
		})
		entries[i] = result.NewEntry(emp, e.Score, match.Type(e.MatchType))
	}
	return result.New(
		entries, d.Total, d.Page, d.PageSize,
		d.Query, time.Duration(d.ExecutionTime), d.Suggestions,
	)
}
