// Package cachekey derives tenant-qualified cache keys.
//
// Keys have the form "<namespace>:<tenant>:<base64url(canonical JSON)>". Tenant ids are
// validated to exclude ':' so the tenant segment is unambiguous and two tenants can
// never share a key or a key prefix.
package cachekey

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/dirsearch/internal/domain/autocomplete"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/request"
)

// Key namespaces.
const (
	SearchNamespace       = "search"
	AutocompleteNamespace = "autocomplete"
)

// canonicalSearch fixes field order; encoding/json emits struct fields in declaration order.
type canonicalSearch struct {
	Query           string   `json:"q"`
	Department      string   `json:"department"`
	Title           string   `json:"title"`
	Skills          []string `json:"skills"`
	IncludeInactive bool     `json:"includeInactive"`
	Page            int      `json:"page"`
	PageSize        int      `json:"pageSize"`
	FuzzyThreshold  float64  `json:"fuzzyThreshold"`
	ExactWeight     float64  `json:"exactWeight"`
	FuzzyWeight     float64  `json:"fuzzyWeight"`
	PartialWeight   float64  `json:"partialWeight"`
}

type canonicalAutocomplete struct {
	Prefix string `json:"prefix"`
	Kind   string `json:"type"`
	Limit  int    `json:"limit"`
}

// Search returns the cache key for a normalized search request.
// Requests that differ only in case, surrounding or repeated whitespace, or skill
// order map to the same key.
func Search(req *request.Request) (string, error) {
	f := req.Filters()
	skills := make([]string, 0, len(f.Skills()))
	for _, s := range f.Skills() {
		skills = append(skills, strings.ToLower(s))
	}
	opts := req.Options()
	c := canonicalSearch{
		Query:           req.NormalizedQuery(),
		Department:      strings.ToLower(f.Department()),
		Title:           strings.ToLower(f.Title()),
		Skills:          skills,
		IncludeInactive: f.IncludeInactive(),
		Page:            req.Page(),
		PageSize:        req.PageSize(),
		FuzzyThreshold:  opts.FuzzyThreshold,
		ExactWeight:     opts.Weights.Exact,
		FuzzyWeight:     opts.Weights.Fuzzy,
		PartialWeight:   opts.Weights.Partial,
	}
	return build(SearchNamespace, req.TenantID(), c)
}

// Autocomplete returns the cache key for a normalized autocomplete request.
func Autocomplete(req *autocomplete.Request) (string, error) {
	c := canonicalAutocomplete{
		Prefix: req.Prefix(),
		Kind:   string(req.Kind()),
		Limit:  req.Limit(),
	}
	return build(AutocompleteNamespace, req.TenantID(), c)
}

// TenantPrefixes returns every key prefix owned by the tenant.
func TenantPrefixes(tenantID string) []string {
	return []string{
		SearchNamespace + ":" + tenantID + ":",
		AutocompleteNamespace + ":" + tenantID + ":",
	}
}

func build(namespace, tenantID string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%s key for tenant %s: %w", namespace, tenantID, err)
	}
	return namespace + ":" + tenantID + ":" + base64.URLEncoding.EncodeToString(data), nil
}
