package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dirsearch/internal/domain"
	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/cachekey"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/request"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/result"
	"github.com/kailas-cloud/dirsearch/internal/logger"
	"github.com/kailas-cloud/dirsearch/internal/metrics"
)

// DefaultTimeout is the compute budget for one search.
const DefaultTimeout = 500 * time.Millisecond

// cancelCheckEvery is how many candidates are matched between deadline checks.
const cancelCheckEvery = 256

// Config tunes the search pipeline.
type Config struct {
	Timeout             time.Duration
	Defaults            request.Options
	SuggestionThreshold float64
	MaxSuggestions      int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:             DefaultTimeout,
		Defaults:            request.DefaultOptions(),
		SuggestionThreshold: DefaultSuggestionThreshold,
		MaxSuggestions:      DefaultMaxSuggestions,
	}
}

// Service runs tenant-scoped employee searches with a result cache in front.
type Service struct {
	store  EmployeeStore
	cache  ResultCache
	events EventRecorder
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// New creates a search service. events may be nil to disable analytics.
func New(store EmployeeStore, cache ResultCache, events EventRecorder, cfg Config, logger *zap.Logger) *Service {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Defaults == (request.Options{}) {
		cfg.Defaults = def.Defaults
	}
	if cfg.SuggestionThreshold <= 0 {
		cfg.SuggestionThreshold = def.SuggestionThreshold
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = def.MaxSuggestions
	}
	return &Service{
		store:  store,
		cache:  cache,
		events: events,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Search parses params for the principal's tenant and returns one page of ranked results.
// The tenant always comes from the principal, never from params.
func (s *Service) Search(ctx context.Context, p domain.Principal, params url.Values) (result.Result, error) {
	start := s.now()

	req, err := request.ParseWithDefaults(p.TenantID, params, s.cfg.Defaults)
	if err != nil {
		s.observe("invalid", false, start)
		return result.Result{}, fmt.Errorf("parse search request: %w", err)
	}

	if req.IsEmpty() {
		s.observe("empty", false, start)
		res := result.Empty(req.Page(), req.PageSize(), req.Query())
		return res.WithRequestMeta(req.Query(), s.now().Sub(start), false), nil
	}

	key, err := cachekey.Search(&req)
	if err != nil {
		logger.FromContextOr(ctx, s.logger).Warn("Search cache bypassed",
			zap.String("tenant_id", req.TenantID()), zap.Error(err))
	}
	if key != "" {
		if cached, ok := s.cache.GetSearch(ctx, key); ok {
			res := cached.WithRequestMeta(req.Query(), s.now().Sub(start), true)
			s.observe("cached", true, start)
			s.publish(p, &req, &res)
			return res, nil
		}
	}

	res, err := s.compute(ctx, &req, start)
	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrSearchTimeout) {
			outcome = "timeout"
		}
		s.observe(outcome, false, start)
		return result.Result{}, err
	}

	if key != "" && res.Total() > 0 {
		s.cache.SetSearch(ctx, key, &res)
	}
	s.observe("ok", false, start)
	s.publish(p, &req, &res)
	return res, nil
}

// ClearCache removes every cached search and autocomplete entry of the tenant.
// Authorization is the caller's responsibility.
func (s *Service) ClearCache(ctx context.Context, tenantID string) (int, error) {
	if err := domain.ValidateTenantID(tenantID); err != nil {
		return 0, err
	}
	total := 0
	for _, prefix := range cachekey.TenantPrefixes(tenantID) {
		n, err := s.cache.DeleteByPrefix(ctx, prefix)
		total += n
		if err != nil {
			return total, fmt.Errorf("clear cache %s: %w: %w", prefix, domain.ErrUpstreamUnavailable, err)
		}
	}
	logger.FromContextOr(ctx, s.logger).Info("Search cache cleared",
		zap.String("tenant_id", tenantID), zap.Int("removed", total))
	return total, nil
}

// compute runs matching, ranking and suggestions under the latency budget.
func (s *Service) compute(ctx context.Context, req *request.Request, start time.Time) (result.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	employees, err := s.store.ListActive(ctx, req.TenantID(), req.Filters())
	if err != nil {
		if ctx.Err() != nil {
			return result.Result{}, timeoutErr(ctx, err)
		}
		return result.Result{}, fmt.Errorf("list employees: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	metrics.SearchCandidates.Observe(float64(len(employees)))

	cands, err := s.match(ctx, req, employees)
	if err != nil {
		return result.Result{}, err
	}

	ranked := rank(cands, req.Options().Weights)
	page := paginate(ranked, req.Offset(), req.PageSize())

	var suggestions []string
	if len(ranked) == 0 {
		suggestions = s.suggestions(ctx, req, employees)
	}

	return s.assemble(req, page, len(ranked), suggestions, start), nil
}

func (s *Service) match(ctx context.Context, req *request.Request, employees []employee.Employee) ([]candidate, error) {
	log := logger.FromContextOr(ctx, s.logger)
	terms := req.Terms()
	phrase := req.NormalizedQuery()
	threshold := req.Options().FuzzyThreshold
	filters := req.Filters()

	cands := make([]candidate, 0)
	for i := range employees {
		if i%cancelCheckEvery == 0 && ctx.Err() != nil {
			return nil, timeoutErr(ctx, ctx.Err())
		}
		e := &employees[i]
		if e.TenantID() != req.TenantID() {
			log.Error("Employee store returned a foreign tenant's record",
				zap.String("tenant_id", req.TenantID()), zap.String("employee_id", e.ID()))
			continue
		}
		if !filters.Matches(e) {
			continue
		}
		if m, ok := matchEmployee(e, terms, phrase, threshold); ok {
			cands = append(cands, candidate{employee: *e, match: m})
		}
	}
	return cands, nil
}

// suggestions draws from the tenant's whole active set, so a narrow filter still
// yields useful alternatives. Failures degrade to no suggestions.
func (s *Service) suggestions(ctx context.Context, req *request.Request, employees []employee.Employee) []string {
	if !req.Filters().IsEmpty() {
		all, err := s.store.ListActive(ctx, req.TenantID(), filter.Filters{})
		if err != nil {
			logger.FromContextOr(ctx, s.logger).Warn("Suggestion corpus unavailable",
				zap.String("tenant_id", req.TenantID()), zap.Error(err))
			return []string{}
		}
		employees = all
	}

	own := make([]employee.Employee, 0, len(employees))
	for i := range employees {
		if employees[i].TenantID() == req.TenantID() {
			own = append(own, employees[i])
		}
	}
	return suggest(req.NormalizedQuery(), own, s.cfg.SuggestionThreshold, s.cfg.MaxSuggestions)
}

func (s *Service) observe(outcome string, cached bool, start time.Time) {
	metrics.SearchRequestsTotal.WithLabelValues("search", outcome).Inc()
	metrics.SearchDuration.WithLabelValues("search", strconv.FormatBool(cached)).
		Observe(s.now().Sub(start).Seconds())
}

// timeoutErr distinguishes our own deadline from the caller going away.
func timeoutErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrSearchTimeout, err)
	}
	return fmt.Errorf("search aborted: %w", err)
}
