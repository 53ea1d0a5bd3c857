package autocomplete

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/dirsearch/internal/domain"
)

// Limits for autocomplete requests.
const (
	MinPrefixLength = 2
	MaxPrefixLength = 100
	DefaultLimit    = 5
	MaxLimit        = 10
)

// Kind selects which field values are completed.
type Kind string

// Autocomplete kinds.
const (
	Names       Kind = "names"
	Titles      Kind = "titles"
	Departments Kind = "departments"
	Skills      Kind = "skills"
	All         Kind = "all"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	switch k {
	case Names, Titles, Departments, Skills, All:
		return true
	}
	return false
}

// Includes reports whether values of kind other are part of k.
func (k Kind) Includes(other Kind) bool {
	return k == All || k == other
}

// Request is a validated autocomplete query.
type Request struct {
	tenantID string
	prefix   string
	kind     Kind
	limit    int
}

// New validates and normalizes autocomplete parameters.
// Empty kind defaults to all; limit is clamped to [1,10] with 5 as default.
func New(tenantID, prefix string, kind Kind, limit int) (Request, error) {
	if err := domain.ValidateTenantID(tenantID); err != nil {
		return Request{}, err
	}
	if kind == "" {
		kind = All
	}
	if !kind.IsValid() {
		return Request{}, domain.NewValidationError("type", "must be one of names, titles, departments, skills, all")
	}
	prefix = Normalize(prefix)
	if utf8.RuneCountInString(prefix) > MaxPrefixLength {
		return Request{}, domain.NewValidationError("q", "prefix too long")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	return Request{tenantID: tenantID, prefix: prefix, kind: kind, limit: limit}, nil
}

// Normalize lower-cases s, trims it and collapses inner whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TenantID returns the authoritative tenant.
func (r *Request) TenantID() string { return r.tenantID }

// Prefix returns the normalized prefix.
func (r *Request) Prefix() string { return r.prefix }

// Kind returns the requested value kind.
func (r *Request) Kind() Kind { return r.kind }

// Limit returns the maximum number of values to return.
func (r *Request) Limit() int { return r.limit }

// TooShort reports whether the prefix is below the minimum length.
func (r *Request) TooShort() bool {
	return utf8.RuneCountInString(r.prefix) < MinPrefixLength
}
