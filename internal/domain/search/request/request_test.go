package request

import (
	"errors"
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/kailas-cloud/dirsearch/internal/domain"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/match"
)

func emptyFilters() filter.Filters {
	f, _ := filter.New("", "", nil, false)
	return f
}

func TestNew_Clamps(t *testing.T) {
	opts := Options{FuzzyThreshold: 1.7, Weights: Weights{Exact: -1, Fuzzy: 0.5, Partial: 0.2}}
	r, err := New("acme", "  John  ", emptyFilters(), -3, 500, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Page() != 1 {
		t.Errorf("Page() = %d, want 1", r.Page())
	}
	if r.PageSize() != MaxPageSize {
		t.Errorf("PageSize() = %d, want %d", r.PageSize(), MaxPageSize)
	}
	if r.Options().FuzzyThreshold != 1 {
		t.Errorf("FuzzyThreshold = %f, want 1", r.Options().FuzzyThreshold)
	}
	if r.Options().Weights.Exact != 0 {
		t.Errorf("Exact weight = %f, want 0", r.Options().Weights.Exact)
	}
	if r.Query() != "John" {
		t.Errorf("Query() = %q", r.Query())
	}
}

func TestNew_PageUpperBound(t *testing.T) {
	r, err := New("acme", "john", emptyFilters(), math.MaxInt, MaxPageSize, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Page() != MaxPage {
		t.Errorf("Page() = %d, want %d", r.Page(), MaxPage)
	}
	if r.Offset() < 0 {
		t.Errorf("Offset() = %d, must not overflow", r.Offset())
	}
}

func TestNew_PageSizeLowerBound(t *testing.T) {
	r, err := New("acme", "x", emptyFilters(), 1, 0, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.PageSize() != MinPageSize {
		t.Errorf("PageSize() = %d, want %d", r.PageSize(), MinPageSize)
	}
}

func TestNew_Terms(t *testing.T) {
	r, err := New("acme", "John   ENGINEER", emptyFilters(), 1, 20, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	terms := r.Terms()
	if len(terms) != 2 || terms[0] != "john" || terms[1] != "engineer" {
		t.Errorf("Terms() = %v", terms)
	}
	if r.NormalizedQuery() != "john engineer" {
		t.Errorf("NormalizedQuery() = %q", r.NormalizedQuery())
	}
}

func TestNew_EmptyQuery(t *testing.T) {
	r, err := New("acme", "   \t ", emptyFilters(), 1, 20, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.IsEmpty() {
		t.Error("whitespace-only query must be empty")
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		tenant string
		query  string
	}{
		{"missing tenant", "", "john"},
		{"bad tenant", "acme:evil", "john"},
		{"query too long", "acme", strings.Repeat("a", MaxQueryLength+1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.tenant, tc.query, emptyFilters(), 1, 20, DefaultOptions())
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestWeights_For(t *testing.T) {
	w := DefaultWeights()
	if w.For(match.Exact) != 1.0 || w.For(match.Fuzzy) != 0.7 || w.For(match.Partial) != 0.4 {
		t.Errorf("unexpected default weights: %+v", w)
	}
	if w.For(match.None) != 0 {
		t.Error("None weight must be 0")
	}
}

func TestParse_Defaults(t *testing.T) {
	r, err := Parse("acme", url.Values{"q": {"john"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TenantID() != "acme" || r.Query() != "john" {
		t.Errorf("tenant/query = %q/%q", r.TenantID(), r.Query())
	}
	if r.Page() != DefaultPage || r.PageSize() != DefaultPageSize {
		t.Errorf("page/pageSize = %d/%d", r.Page(), r.PageSize())
	}
	if r.Options() != DefaultOptions() {
		t.Errorf("Options() = %+v", r.Options())
	}
	if !r.Filters().IsEmpty() {
		t.Error("expected empty filters")
	}
}

func TestParse_QueryAlias(t *testing.T) {
	r, err := Parse("acme", url.Values{"query": {"jane"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "jane" {
		t.Errorf("Query() = %q", r.Query())
	}
}

func TestParse_AllParams(t *testing.T) {
	params := url.Values{
		"q":               {"john"},
		"department":      {"Engineering"},
		"title":           {"engineer"},
		"skills":          {"go,,sql, go"},
		"includeInactive": {"true"},
		"page":            {"2"},
		"pageSize":        {"5"},
		"fuzzyThreshold":  {"0.5"},
		"customWeights":   {`{"exactMatch": 2, "fuzzyMatch": 0.1}`},
		"partialWeight":   {"0.9"},
	}
	r, err := Parse("acme", params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := r.Filters()
	if f.Department() != "Engineering" || f.Title() != "engineer" || !f.IncludeInactive() {
		t.Errorf("filters = %+v", f)
	}
	if len(f.Skills()) != 2 {
		t.Errorf("Skills() = %v", f.Skills())
	}
	if r.Page() != 2 || r.PageSize() != 5 || r.Offset() != 5 {
		t.Errorf("page=%d size=%d offset=%d", r.Page(), r.PageSize(), r.Offset())
	}
	want := Options{FuzzyThreshold: 0.5, Weights: Weights{Exact: 2, Fuzzy: 0.1, Partial: 0.9}}
	if r.Options() != want {
		t.Errorf("Options() = %+v, want %+v", r.Options(), want)
	}
}

func TestParse_IndividualWeightOverridesCustom(t *testing.T) {
	r, err := Parse("acme", url.Values{
		"q":             {"x"},
		"customWeights": {`{"exactMatch": 2}`},
		"exactWeight":   {"3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Options().Weights.Exact != 3 {
		t.Errorf("Exact = %f, want 3", r.Options().Weights.Exact)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric page", "page", "two"},
		{"non-numeric pageSize", "pageSize", "1.5"},
		{"non-numeric threshold", "fuzzyThreshold", "high"},
		{"non-numeric weight", "exactWeight", "heavy"},
		{"malformed customWeights", "customWeights", `{"exactMatch": "big"}`},
		{"non-finite weight", "fuzzyWeight", "NaN"},
		{"bad boolean", "includeInactive", "maybe"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("acme", url.Values{"q": {"john"}, tc.key: {tc.value}})
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestParse_ClampsInsteadOfRejecting(t *testing.T) {
	r, err := Parse("acme", url.Values{"q": {"john"}, "page": {"0"}, "pageSize": {"1000"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Page() != 1 || r.PageSize() != MaxPageSize {
		t.Errorf("page=%d pageSize=%d", r.Page(), r.PageSize())
	}
}

func TestParse_HugePageClamped(t *testing.T) {
	r, err := Parse("acme", url.Values{"q": {"john"}, "page": {"9223372036854775807"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Page() != MaxPage || r.Offset() <= 0 {
		t.Errorf("page=%d offset=%d", r.Page(), r.Offset())
	}
}

func TestParseWithDefaults(t *testing.T) {
	defaults := DefaultOptions()
	defaults.FuzzyThreshold = 0.5

	r, err := ParseWithDefaults("acme", url.Values{"q": {"john"}}, defaults)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Options().FuzzyThreshold != 0.5 {
		t.Errorf("threshold = %v, want configured default", r.Options().FuzzyThreshold)
	}

	r, _ = ParseWithDefaults("acme", url.Values{"q": {"john"}, "fuzzyThreshold": {"0.1"}}, defaults)
	if r.Options().FuzzyThreshold != 0.1 {
		t.Errorf("explicit threshold lost: %v", r.Options().FuzzyThreshold)
	}
}
