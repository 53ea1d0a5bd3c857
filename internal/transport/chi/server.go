package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dirsearch/internal/domain"
	domac "github.com/kailas-cloud/dirsearch/internal/domain/autocomplete"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/result"
	"github.com/kailas-cloud/dirsearch/internal/logger"
	autocompleteuc "github.com/kailas-cloud/dirsearch/internal/usecase/autocomplete"
	healthuc "github.com/kailas-cloud/dirsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/dirsearch/internal/usecase/search"
	"github.com/kailas-cloud/dirsearch/internal/version"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeValidationFailed  = "validation_failed"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeSearchTimeout     = "search_timeout"
	CodeSearchUnavailable = "search_unavailable"
	CodeInternalError     = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the employee search HTTP API.
type Server struct {
	search        *searchuc.Service
	autocomplete  *autocompleteuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	autocomplete *autocompleteuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:       search,
		autocomplete: autocomplete,
		health:       health,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, CodeForbidden),
		sentinelHandler(domain.ErrSearchTimeout, http.StatusServiceUnavailable, CodeSearchTimeout),
		sentinelHandler(domain.ErrUpstreamUnavailable, http.StatusInternalServerError, CodeSearchUnavailable),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/employees/search", s.SearchEmployees)
		r.Get("/employees/autocomplete", s.Autocomplete)
		r.Delete("/search/cache", s.ClearCache)
	})
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EmployeeHit is one ranked employee in a search response.
type EmployeeHit struct {
	ID         string   `json:"id"`
	TenantID   string   `json:"tenantId"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	Title      string   `json:"title"`
	Department string   `json:"department"`
	Skills     []string `json:"skills"`
	Active     bool     `json:"active"`
	Score      float64  `json:"score"`
	MatchType  string   `json:"matchType"`
}

// SearchMeta carries response provenance.
type SearchMeta struct {
	Cached bool `json:"cached"`
}

// SearchResponse is the body of GET /api/v1/employees/search.
type SearchResponse struct {
	Results       []EmployeeHit `json:"results"`
	Total         int           `json:"total"`
	Page          int           `json:"page"`
	PageSize      int           `json:"pageSize"`
	HasMore       bool          `json:"hasMore"`
	Query         string        `json:"query"`
	ExecutionTime int64         `json:"executionTime"` // milliseconds
	Suggestions   []string      `json:"suggestions"`
	Meta          SearchMeta    `json:"meta"`
}

// AutocompleteResponse is the body of GET /api/v1/employees/autocomplete.
type AutocompleteResponse struct {
	Query       string   `json:"query"`
	Type        string   `json:"type"`
	Suggestions []string `json:"suggestions"`
}

// ClearCacheResponse is the body of DELETE /api/v1/search/cache.
type ClearCacheResponse struct {
	Removed int `json:"removed"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// SearchEmployees handles GET /api/v1/employees/search.
func (s *Server) SearchEmployees(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		s.handleDomainError(w, r, domain.ErrUnauthorized)
		return
	}

	res, err := s.search.Search(r.Context(), p, r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResultToResponse(&res))
}

// Autocomplete handles GET /api/v1/employees/autocomplete.
func (s *Server) Autocomplete(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		s.handleDomainError(w, r, domain.ErrUnauthorized)
		return
	}

	params, err := bindAutocompleteParams(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	prefix := params.prefix()
	kind := domac.Kind(strings.ToLower(params.Type))

	values, err := s.autocomplete.Complete(r.Context(), p.TenantID, prefix, kind, params.Limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if kind == "" {
		kind = domac.All
	}
	writeJSON(w, http.StatusOK, AutocompleteResponse{
		Query:       strings.TrimSpace(prefix),
		Type:        string(kind),
		Suggestions: values,
	})
}

// ClearCache handles DELETE /api/v1/search/cache. Admin principals only.
func (s *Server) ClearCache(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		s.handleDomainError(w, r, domain.ErrUnauthorized)
		return
	}
	if !p.Admin {
		s.handleDomainError(w, r, domain.ErrForbidden)
		return
	}

	n, err := s.search.ClearCache(r.Context(), p.TenantID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ClearCacheResponse{Removed: n})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation errors name the offending parameter; everything else maps to its sentinel.
func safeDomainMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrUnauthorized,
		domain.ErrForbidden,
		domain.ErrSearchTimeout,
		domain.ErrUpstreamUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func searchResultToResponse(r *result.Result) SearchResponse {
	hits := make([]EmployeeHit, 0, len(r.Entries()))
	for _, e := range r.Entries() {
		emp := e.Employee()
		skills := emp.Skills()
		if skills == nil {
			skills = []string{}
		}
		hits = append(hits, EmployeeHit{
			ID:         emp.ID(),
			TenantID:   emp.TenantID(),
			FirstName:  emp.FirstName(),
			LastName:   emp.LastName(),
			Email:      emp.Email(),
			Title:      emp.Title(),
			Department: emp.Department(),
			Skills:     skills,
			Active:     emp.Active(),
			Score:      e.Score(),
			MatchType:  string(e.MatchType()),
		})
	}
	suggestions := r.Suggestions()
	if suggestions == nil {
		suggestions = []string{}
	}
	return SearchResponse{
		Results:       hits,
		Total:         r.Total(),
		Page:          r.Page(),
		PageSize:      r.PageSize(),
		HasMore:       r.HasMore(),
		Query:         r.Query(),
		ExecutionTime: r.ExecutionTime().Milliseconds(),
		Suggestions:   suggestions,
		Meta:          SearchMeta{Cached: r.Cached()},
	}
}
