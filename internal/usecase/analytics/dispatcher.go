// Package analytics delivers search events to a sink off the request path.
//
// Events go through a bounded queue drained by a fixed worker pool. A full queue
// drops the event instead of blocking the search, and sink failures are logged
// and counted, never returned to the caller.
package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domanalytics "github.com/kailas-cloud/dirsearch/internal/domain/analytics"
	"github.com/kailas-cloud/dirsearch/internal/metrics"
)

// Defaults for Config.
const (
	DefaultQueueSize = 1024
	DefaultWorkers   = 2
	DefaultTimeout   = 2 * time.Second
)

// Sink persists one event.
type Sink interface {
	Record(ctx context.Context, e *domanalytics.SearchEvent) error
}

// Config sizes the dispatcher.
type Config struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration // per event
}

// Dispatcher is a fire-and-forget event recorder.
type Dispatcher struct {
	sink    Sink
	queue   chan domanalytics.SearchEvent
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	g      errgroup.Group
}

// NewDispatcher starts cfg.Workers workers delivering to sink.
func NewDispatcher(sink Sink, cfg Config, logger *zap.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	d := &Dispatcher{
		sink:    sink,
		queue:   make(chan domanalytics.SearchEvent, cfg.QueueSize),
		timeout: cfg.Timeout,
		logger:  logger,
	}
	for range cfg.Workers {
		d.g.Go(d.work)
	}
	return d
}

// RecordSearchEvent enqueues e. It never blocks.
func (d *Dispatcher) RecordSearchEvent(e *domanalytics.SearchEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.AnalyticsEventsTotal.WithLabelValues("dropped").Inc()
		return
	}
	select {
	case d.queue <- *e:
	default:
		metrics.AnalyticsEventsTotal.WithLabelValues("dropped").Inc()
		d.logger.Warn("Analytics queue full, dropping event",
			zap.String("tenant_id", e.TenantID), zap.String("event_id", e.ID))
	}
}

// Close stops accepting events and waits for queued ones to drain, or for ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = d.g.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.Warn("Analytics drain interrupted", zap.Int("pending", len(d.queue)))
		return ctx.Err()
	}
}

func (d *Dispatcher) work() error {
	for e := range d.queue {
		d.deliver(&e)
	}
	return nil
}

func (d *Dispatcher) deliver(e *domanalytics.SearchEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sink.Record(ctx, e); err != nil {
		metrics.AnalyticsEventsTotal.WithLabelValues("failed").Inc()
		d.logger.Warn("Failed to record search event",
			zap.String("tenant_id", e.TenantID), zap.String("event_id", e.ID), zap.Error(err))
		return
	}
	metrics.AnalyticsEventsTotal.WithLabelValues("recorded").Inc()
}
