package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the cache is down; searches still work uncached.
	Degraded Status = "degraded"
	// Unhealthy indicates the employee store is down.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// checkTimeout bounds each individual ping.
const checkTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	employees Pinger
	cache     Pinger
}

// New creates a Service. cache can be nil when caching is disabled.
func New(employees, cache Pinger) *Service {
	return &Service{employees: employees, cache: cache}
}

// Check pings every component concurrently and aggregates the outcome.
func (s *Service) Check(ctx context.Context) Report {
	components := map[string]Pinger{"employees": s.employees}
	if s.cache != nil {
		components["cache"] = s.cache
	}

	var (
		mu     sync.Mutex
		g      errgroup.Group
		checks = make(map[string]CheckResult, len(components))
	)
	for name, p := range components {
		g.Go(func() error {
			res := ping(ctx, p)
			mu.Lock()
			checks[name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	switch {
	case checks["employees"] == CheckError:
		status = Unhealthy
	case checks["cache"] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func ping(ctx context.Context, p Pinger) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
