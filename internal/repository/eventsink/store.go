package eventsink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/dirsearch/internal/domain/analytics"
)

const (
	keyPrefix = "analytics:"

	// DefaultListMax caps the per-tenant event list.
	DefaultListMax = 10000
	// CounterTTL keeps daily counters around long enough to read yesterday's totals.
	CounterTTL = 48 * time.Hour
)

// store is the consumer interface for the Redis sink (ISP).
type store interface {
	LPushTrim(ctx context.Context, key string, value []byte, maxLen int) error
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// StoreSink appends events to a capped per-tenant list and bumps daily counters.
type StoreSink struct {
	store   store
	listMax int
}

// NewStoreSink creates a sink over a key-value store.
func NewStoreSink(s store, listMax int) *StoreSink {
	if listMax <= 0 {
		listMax = DefaultListMax
	}
	return &StoreSink{store: s, listMax: listMax}
}

// Record persists one search event.
func (s *StoreSink) Record(ctx context.Context, e *analytics.SearchEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := s.store.LPushTrim(ctx, EventsKey(e.TenantID), data, s.listMax); err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	day := e.OccurredAt.UTC().Format(time.DateOnly)
	if err := s.incr(ctx, CounterKey(e.TenantID, day, "searches")); err != nil {
		return err
	}
	if e.ZeroResult() {
		if err := s.incr(ctx, CounterKey(e.TenantID, day, "zero_results")); err != nil {
			return err
		}
	}
	return nil
}

func (s *StoreSink) incr(ctx context.Context, key string) error {
	if err := s.store.IncrBy(ctx, key, 1); err != nil {
		return fmt.Errorf("analytics INCRBY %s: %w", key, err)
	}
	// Set TTL only if the key has no expiry yet (NX: not reset on repeat).
	if err := s.store.Expire(ctx, key, CounterTTL, true); err != nil {
		return fmt.Errorf("analytics EXPIRE %s: %w", key, err)
	}
	return nil
}

// EventsKey returns the list key holding a tenant's recent events.
func EventsKey(tenantID string) string {
	return keyPrefix + tenantID + ":events"
}

// CounterKey returns the daily counter key for a tenant and metric.
func CounterKey(tenantID, day, metric string) string {
	return keyPrefix + tenantID + ":daily:" + day + ":" + metric
}
