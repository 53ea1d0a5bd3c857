package chi

import (
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/dirsearch/internal/domain"
)

// autocompleteParams are the query parameters of GET /api/v1/employees/autocomplete.
type autocompleteParams struct {
	Q     string
	Query string
	Type  string
	Limit int
}

// prefix returns q, falling back to the query alias when q is blank.
func (p *autocompleteParams) prefix() string {
	if strings.TrimSpace(p.Q) == "" {
		return p.Query
	}
	return p.Q
}

func bindAutocompleteParams(params url.Values) (autocompleteParams, error) {
	var p autocompleteParams
	for name, dest := range map[string]any{
		"q":     &p.Q,
		"query": &p.Query,
		"type":  &p.Type,
		"limit": &p.Limit,
	} {
		if err := bindOptional(params, name, dest); err != nil {
			return autocompleteParams{}, err
		}
	}
	return p, nil
}

// bindOptional binds an optional form-style query parameter into dest.
// Blank values are treated as absent; repeated values are rejected.
func bindOptional(params url.Values, name string, dest any) error {
	var values []string
	for _, v := range params[name] {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	if err := runtime.BindQueryParameter("form", true, false, name, url.Values{name: values}, dest); err != nil {
		return domain.NewValidationError(name, "invalid value")
	}
	return nil
}
