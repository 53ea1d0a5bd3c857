package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/filter"
)

// querier is the consumer interface over *sql.DB (ISP).
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PingContext(ctx context.Context) error
}

// Repo reads tenant-scoped employee projections from Postgres.
type Repo struct {
	db querier
}

// New creates an employee repository.
func New(db querier) *Repo {
	return &Repo{db: db}
}

// Ping checks the database connection.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping employees db: %w", err)
	}
	return nil
}

// ListActive returns the tenant's employees that pass the filters, ordered by id.
// Soft-deleted rows are always excluded; inactive rows only when the filter allows them.
func (r *Repo) ListActive(ctx context.Context, tenantID string, f filter.Filters) ([]employee.Employee, error) {
	query, args := buildListQuery(tenantID, f)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	items := make([]employee.Employee, 0)
	for rows.Next() {
		var row employeeRow
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.FirstName,
			&row.LastName,
			&row.Email,
			&row.Title,
			&row.Department,
			&row.SkillsJSON,
			&row.Active,
		); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		e, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return items, nil
}

type employeeRow struct {
	ID         string
	TenantID   string
	FirstName  string
	LastName   string
	Email      string
	Title      string
	Department string
	SkillsJSON string
	Active     bool
}

func (r *employeeRow) toDomain() (employee.Employee, error) {
	skills, err := decodeSkills(r.SkillsJSON)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("employee %s: %w", r.ID, err)
	}
	return employee.Reconstruct(employee.Fields{
		ID:         r.ID,
		TenantID:   r.TenantID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Title:      r.Title,
		Department: r.Department,
		Skills:     skills,
		Active:     r.Active,
	}), nil
}

func decodeSkills(raw string) ([]string, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var skills []string
	if err := json.Unmarshal([]byte(raw), &skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return skills, nil
}

const listColumns = `id, tenant_id, first_name, last_name, COALESCE(email, ''), COALESCE(title, ''),
		COALESCE(department, ''), COALESCE(array_to_json(skills)::text, '[]'), active`

// buildListQuery pushes the filters down to SQL. The same filters are re-checked in
// memory by the search pipeline, so the SQL only has to be a superset.
func buildListQuery(tenantID string, f filter.Filters) (string, []any) {
	var b strings.Builder
	args := []any{tenantID}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	b.WriteString("SELECT ")
	b.WriteString(listColumns)
	b.WriteString("\n\t\tFROM employees\n\t\tWHERE tenant_id = $1 AND deleted_at IS NULL")
	if !f.IncludeInactive() {
		b.WriteString(" AND active")
	}
	if d := f.Department(); d != "" {
		b.WriteString(" AND LOWER(department) = LOWER(" + arg(d) + ")")
	}
	if t := f.Title(); t != "" {
		b.WriteString(" AND STRPOS(LOWER(title), LOWER(" + arg(t) + ")) > 0")
	}
	if skills := f.Skills(); len(skills) > 0 {
		lowered := make([]string, len(skills))
		for i, s := range skills {
			lowered[i] = strings.ToLower(s)
		}
		b.WriteString(" AND " + arg(lowered) +
			"::text[] <@ ARRAY(SELECT LOWER(s) FROM UNNEST(skills) AS s)")
	}
	b.WriteString("\n\t\tORDER BY id ASC")
	return b.String(), args
}
