package autocomplete

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dirsearch/internal/domain"
	domac "github.com/kailas-cloud/dirsearch/internal/domain/autocomplete"
	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/cachekey"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/dirsearch/internal/logger"
	"github.com/kailas-cloud/dirsearch/internal/metrics"
)

// DefaultTimeout bounds one completion.
const DefaultTimeout = 500 * time.Millisecond

// Service completes field values for a tenant's active employees.
type Service struct {
	store   EmployeeStore
	cache   ValueCache
	timeout time.Duration
	logger  *zap.Logger
}

// New creates an autocomplete service. A non-positive timeout selects DefaultTimeout.
func New(store EmployeeStore, cache ValueCache, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{store: store, cache: cache, timeout: timeout, logger: logger}
}

// Complete returns up to limit distinct values of the requested kind whose
// normalized form starts with the normalized prefix, alphabetically ordered.
// Prefixes shorter than two characters yield an empty list.
func (s *Service) Complete(
	ctx context.Context, tenantID, prefix string, kind domac.Kind, limit int,
) ([]string, error) {
	start := time.Now()

	req, err := domac.New(tenantID, prefix, kind, limit)
	if err != nil {
		s.observe("invalid", false, start)
		return nil, fmt.Errorf("parse autocomplete request: %w", err)
	}
	if req.TooShort() {
		s.observe("empty", false, start)
		return []string{}, nil
	}

	key, err := cachekey.Autocomplete(&req)
	if err != nil {
		logger.FromContextOr(ctx, s.logger).Warn("Autocomplete cache bypassed",
			zap.String("tenant_id", req.TenantID()), zap.Error(err))
	}
	if key != "" {
		if values, ok := s.cache.GetValues(ctx, key); ok {
			s.observe("cached", true, start)
			return values, nil
		}
	}

	values, err := s.compute(ctx, &req)
	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrSearchTimeout) {
			outcome = "timeout"
		}
		s.observe(outcome, false, start)
		return nil, err
	}

	if key != "" && len(values) > 0 {
		s.cache.SetValues(ctx, key, values)
	}
	s.observe("ok", false, start)
	return values, nil
}

func (s *Service) compute(ctx context.Context, req *domac.Request) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	employees, err := s.store.ListActive(ctx, req.TenantID(), filter.Filters{})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", domain.ErrSearchTimeout, err)
		}
		return nil, fmt.Errorf("list employees: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	log := logger.FromContextOr(ctx, s.logger)
	// normalized form -> displayed spelling
	seen := make(map[string]string)
	for i := range employees {
		e := &employees[i]
		if e.TenantID() != req.TenantID() {
			log.Error("Employee store returned a foreign tenant's record",
				zap.String("tenant_id", req.TenantID()), zap.String("employee_id", e.ID()))
			continue
		}
		if !e.Active() {
			continue
		}
		for _, v := range candidates(e, req.Kind()) {
			norm := domac.Normalize(v)
			if norm == "" || !strings.HasPrefix(norm, req.Prefix()) {
				continue
			}
			// Displayed with collapsed whitespace so it keeps the prefix it matched on.
			display := strings.Join(strings.Fields(v), " ")
			if prev, ok := seen[norm]; !ok || display < prev {
				seen[norm] = display
			}
		}
	}

	return order(seen, req.Limit()), nil
}

// candidates lists the field values of e that kind completes.
func candidates(e *employee.Employee, kind domac.Kind) []string {
	var out []string
	if kind.Includes(domac.Names) {
		out = append(out, e.FirstName(), e.LastName())
		if e.FirstName() != "" && e.LastName() != "" {
			out = append(out, e.FullName())
		}
	}
	if kind.Includes(domac.Titles) {
		out = append(out, e.Title())
	}
	if kind.Includes(domac.Departments) {
		out = append(out, e.Department())
	}
	if kind.Includes(domac.Skills) {
		out = append(out, e.Skills()...)
	}
	return out
}

// order sorts by normalized form, case-insensitively, and cuts at limit.
func order(seen map[string]string, limit int) []string {
	norms := make([]string, 0, len(seen))
	for n := range seen {
		norms = append(norms, n)
	}
	sort.Strings(norms)

	out := make([]string, 0, min(limit, len(norms)))
	for _, n := range norms {
		if len(out) == limit {
			break
		}
		out = append(out, seen[n])
	}
	return out
}

func (s *Service) observe(outcome string, cached bool, start time.Time) {
	metrics.SearchRequestsTotal.WithLabelValues("autocomplete", outcome).Inc()
	metrics.SearchDuration.WithLabelValues("autocomplete", strconv.FormatBool(cached)).
		Observe(time.Since(start).Seconds())
}
