package dirsearch

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/kailas-cloud/dirsearch/internal/domain"
)

// Search ranks the tenant's employees against p.Query and returns one page.
// An empty query returns an empty page.
func (c *Client) Search(ctx context.Context, tenantID, userID string, p SearchParams) (res *SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", tenantID, start, err) }()

	params, err := p.values()
	if err != nil {
		return nil, err
	}
	r, err := c.searchSvc.Search(ctx, domain.Principal{TenantID: tenantID, UserID: userID}, params)
	if err != nil {
		return nil, err
	}
	return fromDomainResult(&r), nil
}

// Autocomplete returns up to limit distinct values of the given kind that start with prefix.
// Prefixes shorter than two characters yield an empty list.
func (c *Client) Autocomplete(ctx context.Context, tenantID, prefix string, kind Kind, limit int) (values []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("autocomplete", tenantID, start, err) }()

	return c.autocompleteSvc.Complete(ctx, tenantID, prefix, kind, limit)
}

// ClearCache drops every cached search and autocomplete entry of the tenant.
func (c *Client) ClearCache(ctx context.Context, tenantID string) (removed int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("clear_cache", tenantID, start, err) }()

	return c.searchSvc.ClearCache(ctx, tenantID)
}

// values encodes p the way the HTTP API receives it, so both share one parser.
func (p *SearchParams) values() (url.Values, error) {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.Department != "" {
		v.Set("department", p.Department)
	}
	if p.Title != "" {
		v.Set("title", p.Title)
	}
	for _, s := range p.Skills {
		v.Add("skills", s)
	}
	if p.IncludeInactive {
		v.Set("includeInactive", "true")
	}
	if p.Page != 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize != 0 {
		v.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	if p.FuzzyThreshold != nil {
		v.Set("fuzzyThreshold", strconv.FormatFloat(*p.FuzzyThreshold, 'f', -1, 64))
	}
	if p.Weights != nil {
		raw, err := json.Marshal(p.Weights)
		if err != nil {
			return nil, domain.NewValidationError("customWeights", err.Error())
		}
		v.Set("customWeights", string(raw))
	}
	return v, nil
}
