package match

import "sort"

// Type classifies how a field matched a query term.
type Type string

// Match type constants, strongest first.
const (
	Exact   Type = "exact"
	Partial Type = "partial"
	Fuzzy   Type = "fuzzy"
	None    Type = "none"
)

// Searchable field names.
const (
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldEmail      = "email"
	FieldTitle      = "title"
	FieldDepartment = "department"
	FieldSkills     = "skills"
)

// Fields lists the searchable fields in evaluation order.
var Fields = []string{
	FieldFirstName, FieldLastName, FieldEmail, FieldTitle, FieldDepartment, FieldSkills,
}

// PartialScore is the pre-weight score of a substring match.
const PartialScore = 0.6

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	return t == Exact || t == Partial || t == Fuzzy || t == None
}

// strength orders types for "best match" selection. Higher is stronger.
func (t Type) strength() int {
	switch t {
	case Exact:
		return 3
	case Partial:
		return 2
	case Fuzzy:
		return 1
	default:
		return 0
	}
}

// StrongerThan reports whether t is a strictly stronger classification than o.
func (t Type) StrongerThan(o Type) bool { return t.strength() > o.strength() }

// Result is the per-candidate outcome of matching (ephemeral, never persisted).
type Result struct {
	employeeID  string
	matchType   Type
	fieldScores map[string]float64
	fieldTypes  map[string]Type
}

// NewResult creates an empty match result for the employee.
func NewResult(employeeID string) Result {
	return Result{
		employeeID:  employeeID,
		matchType:   None,
		fieldScores: make(map[string]float64),
		fieldTypes:  make(map[string]Type),
	}
}

// Record keeps the field's classification when it beats the one already stored.
// Within the same classification the higher score wins.
func (r *Result) Record(field string, t Type, score float64) {
	if t == None {
		return
	}
	cur, ok := r.fieldTypes[field]
	if !ok || t.StrongerThan(cur) || (t == cur && score > r.fieldScores[field]) {
		r.fieldTypes[field] = t
		r.fieldScores[field] = score
	}
	if t.StrongerThan(r.matchType) {
		r.matchType = t
	}
}

// EmployeeID returns the candidate identifier.
func (r *Result) EmployeeID() string { return r.employeeID }

// MatchType returns the best classification among matched fields.
func (r *Result) MatchType() Type { return r.matchType }

// Matched reports whether any field matched.
func (r *Result) Matched() bool { return r.matchType != None }

// FieldScores returns the pre-weight score per matched field.
func (r *Result) FieldScores() map[string]float64 { return r.fieldScores }

// FieldType returns the classification of a matched field (None if unmatched).
func (r *Result) FieldType(field string) Type {
	if t, ok := r.fieldTypes[field]; ok {
		return t
	}
	return None
}

// MatchedFields returns the matched field names, sorted.
func (r *Result) MatchedFields() []string {
	out := make([]string, 0, len(r.fieldTypes))
	for f := range r.fieldTypes {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
