package health

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("conn refused")
	tests := []struct {
		name       string
		employees  error
		cache      Pinger
		wantStatus Status
		wantChecks map[string]CheckResult
	}{
		{"all healthy", nil, &mockPinger{}, Healthy,
			map[string]CheckResult{"employees": CheckOK, "cache": CheckOK}},
		{"cache down degrades", nil, &mockPinger{err: down}, Degraded,
			map[string]CheckResult{"employees": CheckOK, "cache": CheckError}},
		{"store down is an error", down, &mockPinger{}, Unhealthy,
			map[string]CheckResult{"employees": CheckError, "cache": CheckOK}},
		{"both down", down, &mockPinger{err: down}, Unhealthy,
			map[string]CheckResult{"employees": CheckError, "cache": CheckError}},
		{"no cache configured", nil, nil, Healthy,
			map[string]CheckResult{"employees": CheckOK}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(&mockPinger{err: tc.employees}, tc.cache)
			r := svc.Check(context.Background())

			if r.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tc.wantStatus)
			}
			if len(r.Checks) != len(tc.wantChecks) {
				t.Fatalf("checks = %v", r.Checks)
			}
			for k, v := range tc.wantChecks {
				if r.Checks[k] != v {
					t.Errorf("%s = %q, want %q", k, r.Checks[k], v)
				}
			}
		})
	}
}

// barrierPinger succeeds only once every pinger sharing the barrier has started.
type barrierPinger struct {
	arrived *sync.WaitGroup
	all     chan struct{}
}

func (b *barrierPinger) Ping(ctx context.Context) error {
	b.arrived.Done()
	select {
	case <-b.all:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestCheck_Concurrent(t *testing.T) {
	var arrived sync.WaitGroup
	arrived.Add(2)
	all := make(chan struct{})
	go func() {
		arrived.Wait()
		close(all)
	}()

	svc := New(&barrierPinger{&arrived, all}, &barrierPinger{&arrived, all})
	if r := svc.Check(context.Background()); r.Status != Healthy {
		t.Errorf("status = %q, checks %v", r.Status, r.Checks)
	}
}
