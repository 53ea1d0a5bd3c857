package employee

import (
	"fmt"
	"strings"
)

// Fields carries the raw attributes of an employee projection.
type Fields struct {
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

// Employee is the read-only directory projection used by search (immutable value object).
type Employee struct {
	id         string
	tenantID   string
	firstName  string
	lastName   string
	email      string
	title      string
	department string
	skills     []string
	active     bool
}

// New validates and creates an Employee.
// ID and TenantID are required; at least one name part must be present.
func New(f Fields) (Employee, error) {
	if f.ID == "" {
		return Employee{}, fmt.Errorf("employee ID is required")
	}
	if f.TenantID == "" {
		return Employee{}, fmt.Errorf("employee tenant ID is required")
	}
	if strings.TrimSpace(f.FirstName) == "" && strings.TrimSpace(f.LastName) == "" {
		return Employee{}, fmt.Errorf("employee name is required")
	}
	return Reconstruct(f), nil
}

// Reconstruct creates an Employee without validation (storage hydration).
func Reconstruct(f Fields) Employee {
	return Employee{
		id:         f.ID,
		tenantID:   f.TenantID,
		firstName:  f.FirstName,
		lastName:   f.LastName,
		email:      f.Email,
		title:      f.Title,
		department: f.Department,
		skills:     cloneSkills(f.Skills),
		active:     f.Active,
	}
}

// ID returns the employee identifier.
func (e *Employee) ID() string { return e.id }

// TenantID returns the owning tenant.
func (e *Employee) TenantID() string { return e.tenantID }

// FirstName returns the given name.
func (e *Employee) FirstName() string { return e.firstName }

// LastName returns the family name.
func (e *Employee) LastName() string { return e.lastName }

// FullName returns "First Last", trimmed when a part is missing.
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.firstName + " " + e.lastName)
}

// Email returns the work email.
func (e *Employee) Email() string { return e.email }

// Title returns the job title.
func (e *Employee) Title() string { return e.title }

// Department returns the department name.
func (e *Employee) Department() string { return e.department }

// Skills returns the skill list.
func (e *Employee) Skills() []string { return e.skills }

// Active reports whether the employee is active (not soft-deleted or deactivated).
func (e *Employee) Active() bool { return e.active }

// Fields returns a copy of the raw attributes.
func (e *Employee) Fields() Fields {
	return Fields{
		ID:         e.id,
		TenantID:   e.tenantID,
		FirstName:  e.firstName,
		LastName:   e.lastName,
		Email:      e.email,
		Title:      e.title,
		Department: e.department,
		Skills:     cloneSkills(e.skills),
		Active:     e.active,
	}
}

func cloneSkills(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
