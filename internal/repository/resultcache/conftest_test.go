package resultcache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dirsearch/internal/db"
	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/match"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/result"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn      func(ctx context.Context, key string) ([]byte, error)
	setFn      func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	scanFn     func(ctx context.Context, pattern string) ([]string, error)
	delMultiFn func(ctx context.Context, keys []string) (int, error)
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) DelMulti(ctx context.Context, keys []string) (int, error) {
	if m.delMultiFn != nil {
		return m.delMultiFn(ctx, keys)
	}
	return len(keys), nil
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_cache_total",
	}, []string{"kind", "result"})
}

func newTestCache(t *testing.T) (*Cache, *mockStore, *prometheus.CounterVec) {
	t.Helper()
	ms := &mockStore{}
	counter := newCounter()
	return New(ms, 0, counter, zap.NewNop()), ms, counter
}

func sampleResult() result.Result {
	john := employee.Reconstruct(employee.Fields{
		ID: "e1", TenantID: "acme", FirstName: "John", LastName: "Doe",
		Email: "john.doe@acme.io", Title: "Software Engineer", Department: "Engineering",
		Skills: []string{"Go"}, Active: true,
	})
	entries := []result.Entry{result.NewEntry(john, 1.0, match.Exact)}
	return result.New(entries, 1, 1, 20, "john", 3*time.Millisecond, nil)
}
