package request

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/dirsearch/internal/domain"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/filter"
)

// customWeights is the JSON shape of the customWeights parameter.
type customWeights struct {
	ExactMatch   *float64 `json:"exactMatch"`
	FuzzyMatch   *float64 `json:"fuzzyMatch"`
	PartialMatch *float64 `json:"partialMatch"`
}

// Parse turns raw query parameters into a Request.
// tenantID comes from the authenticated caller, never from params.
// Type errors (non-numeric page, malformed weights) are ValidationErrors;
// out-of-range numbers are clamped by New.
func Parse(tenantID string, params url.Values) (Request, error) {
	return ParseWithDefaults(tenantID, params, DefaultOptions())
}

// ParseWithDefaults is Parse with service-configured matching defaults.
func ParseWithDefaults(tenantID string, params url.Values, defaults Options) (Request, error) {
	query := first(params, "q", "query")

	var skills []string
	for _, raw := range params["skills"] {
		skills = append(skills, filter.SplitSkills(raw)...)
	}

	includeInactive, err := parseBool(params, "includeInactive")
	if err != nil {
		return Request{}, err
	}

	filters, err := filter.New(params.Get("department"), params.Get("title"), skills, includeInactive)
	if err != nil {
		return Request{}, domain.NewValidationError("skills", err.Error())
	}

	page, err := parseInt(params, "page", DefaultPage)
	if err != nil {
		return Request{}, err
	}
	pageSize, err := parseInt(params, "pageSize", DefaultPageSize)
	if err != nil {
		return Request{}, err
	}

	opts := defaults
	if opts.FuzzyThreshold, err = parseFloat(params, "fuzzyThreshold", opts.FuzzyThreshold); err != nil {
		return Request{}, err
	}
	if opts.Weights, err = parseWeights(params, opts.Weights); err != nil {
		return Request{}, err
	}

	return New(tenantID, query, filters, page, pageSize, opts)
}

func parseWeights(params url.Values, w Weights) (Weights, error) {
	if raw := strings.TrimSpace(params.Get("customWeights")); raw != "" {
		var cw customWeights
		if err := json.Unmarshal([]byte(raw), &cw); err != nil {
			return Weights{}, domain.NewValidationError("customWeights", "must be a JSON object of numbers")
		}
		if cw.ExactMatch != nil {
			w.Exact = *cw.ExactMatch
		}
		if cw.FuzzyMatch != nil {
			w.Fuzzy = *cw.FuzzyMatch
		}
		if cw.PartialMatch != nil {
			w.Partial = *cw.PartialMatch
		}
	}

	var err error
	if w.Exact, err = parseFloat(params, "exactWeight", w.Exact); err != nil {
		return Weights{}, err
	}
	if w.Fuzzy, err = parseFloat(params, "fuzzyWeight", w.Fuzzy); err != nil {
		return Weights{}, err
	}
	if w.Partial, err = parseFloat(params, "partialWeight", w.Partial); err != nil {
		return Weights{}, err
	}
	return w, nil
}

func first(params url.Values, keys ...string) string {
	for _, k := range keys {
		if v := params.Get(k); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseInt(params url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(params.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(key, "must be an integer")
	}
	return v, nil
}

func parseFloat(params url.Values, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(params.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.NewValidationError(key, "must be a number")
	}
	return v, nil
}

func parseBool(params url.Values, key string) (bool, error) {
	raw := strings.TrimSpace(params.Get(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.NewValidationError(key, "must be a boolean")
	}
	return v, nil
}
