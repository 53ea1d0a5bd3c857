package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dirsearch/internal/db/memory"
	"github.com/kailas-cloud/dirsearch/internal/domain"
	"github.com/kailas-cloud/dirsearch/internal/domain/analytics"
	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/result"
)

// --- Mocks ---

type mockStore struct {
	employees []employee.Employee
	listFn    func(ctx context.Context, tenantID string, f filter.Filters) ([]employee.Employee, error)
	calls     int
}

func (m *mockStore) ListActive(ctx context.Context, tenantID string, f filter.Filters) ([]employee.Employee, error) {
	m.calls++
	if m.listFn != nil {
		return m.listFn(ctx, tenantID, f)
	}
	out := make([]employee.Employee, 0, len(m.employees))
	for i := range m.employees {
		e := &m.employees[i]
		if e.TenantID() == tenantID && f.Matches(e) {
			out = append(out, *e)
		}
	}
	return out, nil
}

type mockCache struct {
	mu       sync.Mutex
	data     map[string]result.Result
	gets     int
	sets     int
	prefixes []string
	deleteFn func(ctx context.Context, prefix string) (int, error)
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]result.Result)}
}

func (m *mockCache) GetSearch(_ context.Context, key string) (result.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	r, ok := m.data[key]
	return r, ok
}

func (m *mockCache) SetSearch(_ context.Context, key string, r *result.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = *r
}

func (m *mockCache) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefixes = append(m.prefixes, prefix)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, prefix)
	}
	n := 0
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

type mockEvents struct {
	events []analytics.SearchEvent
}

func (m *mockEvents) RecordSearchEvent(e *analytics.SearchEvent) {
	m.events = append(m.events, *e)
}

// failingKV is a cache backend that is always down.
type failingKV struct{}

var errKVDown = errors.New("kv down")

func (failingKV) Get(context.Context, string) ([]byte, error) { return nil, errKVDown }
func (failingKV) SetWithTTL(context.Context, string, []byte, time.Duration) error {
	return errKVDown
}
func (failingKV) Scan(context.Context, string) ([]string, error)  { return nil, errKVDown }
func (failingKV) DelMulti(context.Context, []string) (int, error) { return 0, errKVDown }

// newClockedStore returns an in-memory backend whose clock reads *now.
func newClockedStore(now *time.Time) *memory.Store {
	return memory.NewStore(128, memory.WithClock(func() time.Time { return *now }))
}

// --- Fixtures ---

type resultT = result.Result

func emp(id, tenant, first, last, title, dept string, skills ...string) employee.Employee {
	email := ""
	if first != "" {
		email = strings.ToLower(first) + "@" + tenant + ".io"
	}
	return employee.Reconstruct(employee.Fields{
		ID: id, TenantID: tenant, FirstName: first, LastName: last,
		Email: email, Title: title, Department: dept, Skills: skills, Active: true,
	})
}

// scenarioEmployees is the two-person tenant used across the service tests.
func scenarioEmployees() []employee.Employee {
	john := emp("e1", "acme", "John", "Doe", "Software Engineer", "Engineering", "Go")
	f := john.Fields()
	f.Email = "john.doe@acme.io"
	return []employee.Employee{
		employee.Reconstruct(f),
		emp("e2", "acme", "Jane", "Smith", "PM", "Product"),
	}
}

type fixture struct {
	svc    *Service
	store  *mockStore
	cache  *mockCache
	events *mockEvents
}

func newFixture(t *testing.T, employees []employee.Employee) *fixture {
	t.Helper()
	f := &fixture{
		store:  &mockStore{employees: employees},
		cache:  newMockCache(),
		events: &mockEvents{},
	}
	f.svc = New(f.store, f.cache, f.events, DefaultConfig(), zap.NewNop())
	return f
}

func principal(tenant string) domain.Principal {
	return domain.Principal{TenantID: tenant, UserID: "u-" + tenant}
}

func firstNames(r *result.Result) []string {
	out := make([]string, 0, len(r.Entries()))
	for _, e := range r.Entries() {
		x := e.Employee()
		out = append(out, x.FirstName())
	}
	return out
}

func ids(entries []result.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		x := e.Employee()
		out = append(out, x.ID())
	}
	return out
}
