package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	domanalytics "github.com/kailas-cloud/dirsearch/internal/domain/analytics"
	"github.com/kailas-cloud/dirsearch/internal/metrics"
)

// --- Mocks ---

type mockSink struct {
	mu      sync.Mutex
	events  []domanalytics.SearchEvent
	err     error
	started chan struct{}
	gate    chan struct{}
}

func (m *mockSink) Record(_ context.Context, e *domanalytics.SearchEvent) error {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, *e)
	return nil
}

func (m *mockSink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func event(tenant, query string) *domanalytics.SearchEvent {
	return &domanalytics.SearchEvent{ID: tenant + "-" + query, TenantID: tenant, Query: query, ResultCount: 1}
}

func outcome(name string) float64 {
	return testutil.ToFloat64(metrics.AnalyticsEventsTotal.WithLabelValues(name))
}

// --- Tests ---

func TestDispatcher_DeliversAndDrains(t *testing.T) {
	sink := &mockSink{}
	d := NewDispatcher(sink, Config{QueueSize: 16, Workers: 3}, zap.NewNop())
	before := outcome("recorded")

	for _, q := range []string{"a", "b", "c", "d", "e"} {
		d.RecordSearchEvent(event("acme", q))
	}
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	if sink.count() != 5 {
		t.Errorf("delivered = %d, want 5", sink.count())
	}
	if got := outcome("recorded") - before; got != 5 {
		t.Errorf("recorded metric delta = %v", got)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sink := &mockSink{started: make(chan struct{}, 4), gate: make(chan struct{})}
	d := NewDispatcher(sink, Config{QueueSize: 1, Workers: 1}, zap.NewNop())
	before := outcome("dropped")

	d.RecordSearchEvent(event("acme", "1"))
	<-sink.started // worker is busy with the first event

	d.RecordSearchEvent(event("acme", "2")) // fills the queue
	done := make(chan struct{})
	go func() {
		d.RecordSearchEvent(event("acme", "3")) // dropped
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RecordSearchEvent blocked on a full queue")
	}

	close(sink.gate)
	if err := d.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sink.count() != 2 {
		t.Errorf("delivered = %d, want 2", sink.count())
	}
	if got := outcome("dropped") - before; got != 1 {
		t.Errorf("dropped metric delta = %v", got)
	}
}

func TestDispatcher_SinkFailureIsSwallowed(t *testing.T) {
	sink := &mockSink{err: errors.New("redis down")}
	d := NewDispatcher(sink, Config{}, zap.NewNop())
	before := outcome("failed")

	d.RecordSearchEvent(event("acme", "x"))
	if err := d.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := outcome("failed") - before; got != 1 {
		t.Errorf("failed metric delta = %v", got)
	}
}

func TestDispatcher_RecordAfterClose(t *testing.T) {
	sink := &mockSink{}
	d := NewDispatcher(sink, Config{}, zap.NewNop())
	if err := d.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := outcome("dropped")

	d.RecordSearchEvent(event("acme", "late"))
	if sink.count() != 0 {
		t.Error("event recorded after close")
	}
	if got := outcome("dropped") - before; got != 1 {
		t.Errorf("dropped metric delta = %v", got)
	}
	if err := d.Close(context.Background()); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestDispatcher_CloseHonoursContext(t *testing.T) {
	sink := &mockSink{started: make(chan struct{}, 1), gate: make(chan struct{})}
	d := NewDispatcher(sink, Config{Workers: 1}, zap.NewNop())
	d.RecordSearchEvent(event("acme", "slow"))
	<-sink.started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := d.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("close = %v, want deadline exceeded", err)
	}
	close(sink.gate)
}
