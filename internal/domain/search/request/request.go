package request

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/dirsearch/internal/domain"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/match"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length in runes.
	MaxQueryLength        = 256
	DefaultPage           = 1
	DefaultPageSize       = 20
	MinPageSize           = 1
	MaxPageSize           = 100
	DefaultFuzzyThreshold = 0.3
	// MaxPage keeps page*MaxPageSize within int.
	MaxPage = math.MaxInt / MaxPageSize
)

// Weights are the ranking multipliers per match classification.
type Weights struct {
	Exact   float64
	Fuzzy   float64
	Partial float64
}

// DefaultWeights returns {exact: 1.0, fuzzy: 0.7, partial: 0.4}.
func DefaultWeights() Weights {
	return Weights{Exact: 1.0, Fuzzy: 0.7, Partial: 0.4}
}

// For returns the weight applied to a match type (0 for None).
func (w Weights) For(t match.Type) float64 {
	switch t {
	case match.Exact:
		return w.Exact
	case match.Fuzzy:
		return w.Fuzzy
	case match.Partial:
		return w.Partial
	default:
		return 0
	}
}

// Options tune matching and ranking.
type Options struct {
	FuzzyThreshold float64
	Weights        Weights
}

// DefaultOptions returns threshold 0.3 with default weights.
func DefaultOptions() Options {
	return Options{FuzzyThreshold: DefaultFuzzyThreshold, Weights: DefaultWeights()}
}

// Request is a validated, normalized search query.
type Request struct {
	tenantID string
	query    string
	terms    []string
	filters  filter.Filters
	page     int
	pageSize int
	options  Options
}

// New validates and normalizes search parameters.
// page and pageSize are clamped, never rejected. The threshold is clamped to [0,1]
// and negative weights to 0; non-finite numbers are rejected.
func New(
	tenantID, query string,
	filters filter.Filters,
	page, pageSize int,
	opts Options,
) (Request, error) {
	if err := domain.ValidateTenantID(tenantID); err != nil {
		return Request{}, err
	}
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, domain.NewValidationError("q", "query too long")
	}

	page = min(max(page, 1), MaxPage)
	pageSize = min(max(pageSize, MinPageSize), MaxPageSize)

	for name, v := range map[string]float64{
		"fuzzyThreshold": opts.FuzzyThreshold,
		"exactWeight":    opts.Weights.Exact,
		"fuzzyWeight":    opts.Weights.Fuzzy,
		"partialWeight":  opts.Weights.Partial,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Request{}, domain.NewValidationError(name, "must be a finite number")
		}
	}
	opts.FuzzyThreshold = min(max(opts.FuzzyThreshold, 0), 1)
	opts.Weights.Exact = max(opts.Weights.Exact, 0)
	opts.Weights.Fuzzy = max(opts.Weights.Fuzzy, 0)
	opts.Weights.Partial = max(opts.Weights.Partial, 0)

	return Request{
		tenantID: tenantID,
		query:    query,
		terms:    strings.Fields(strings.ToLower(query)),
		filters:  filters,
		page:     page,
		pageSize: pageSize,
		options:  opts,
	}, nil
}

// TenantID returns the authoritative tenant.
func (r *Request) TenantID() string { return r.tenantID }

// Query returns the trimmed query text as supplied.
func (r *Request) Query() string { return r.query }

// Terms returns the lower-cased, whitespace-separated query terms.
func (r *Request) Terms() []string { return r.terms }

// NormalizedQuery returns the terms joined by single spaces.
func (r *Request) NormalizedQuery() string { return strings.Join(r.terms, " ") }

// IsEmpty reports whether there is nothing to search for.
func (r *Request) IsEmpty() bool { return len(r.terms) == 0 }

// Filters returns the employee filters.
func (r *Request) Filters() filter.Filters { return r.filters }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the page size.
func (r *Request) PageSize() int { return r.pageSize }

// Offset returns the index of the first entry of the page.
func (r *Request) Offset() int { return (r.page - 1) * r.pageSize }

// Options returns the matching and ranking options.
func (r *Request) Options() Options { return r.options }
