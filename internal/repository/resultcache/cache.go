// Package resultcache stores computed search and autocomplete results with a fixed TTL.
//
// The cache is optional: every store failure is logged and reported to the caller as
// a miss, so requests fall through to direct computation.
package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dirsearch/internal/db"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/result"
)

// DefaultTTL is how long a cached result stays valid.
const DefaultTTL = 300 * time.Second

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	DelMulti(ctx context.Context, keys []string) (int, error)
}

// Cache is a TTL cache over a key-value store.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a result cache.
// cacheTotal is a counter vec with labels "kind" and "result" (hit/miss/error), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// GetSearch returns a cached search result.
func (c *Cache) GetSearch(ctx context.Context, key string) (result.Result, bool) {
	var dto searchDTO
	if !c.get(ctx, "search", key, &dto) {
		return result.Result{}, false
	}
	return dto.toDomain(), true
}

// SetSearch stores a search result under key.
func (c *Cache) SetSearch(ctx context.Context, key string, r *result.Result) {
	c.set(ctx, key, toDTO(r))
}

// GetValues returns a cached autocomplete value list.
func (c *Cache) GetValues(ctx context.Context, key string) ([]string, bool) {
	var values []string
	if !c.get(ctx, "autocomplete", key, &values) {
		return nil, false
	}
	if values == nil {
		values = []string{}
	}
	return values, true
}

// SetValues stores an autocomplete value list under key.
func (c *Cache) SetValues(ctx context.Context, key string, values []string) {
	c.set(ctx, key, values)
}

// DeleteByPrefix removes every key starting with prefix and returns how many were removed.
// The prefix must not contain glob metacharacters.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	keys, err := c.store.Scan(ctx, prefix+"*")
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", prefix, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := c.store.DelMulti(ctx, keys)
	if err != nil {
		return n, fmt.Errorf("delete %s: %w", prefix, err)
	}
	return n, nil
}

func (c *Cache) get(ctx context.Context, kind, key string, v any) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			c.inc(kind, "miss")
			return false
		}
		c.inc(kind, "error")
		c.logger.Warn("Cache read failed, computing directly", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.inc(kind, "error")
		c.logger.Warn("Failed to decode cached value", zap.String("key", key), zap.Error(err))
		return false
	}
	c.inc(kind, "hit")
	return true
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode cache value", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to write cache", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) inc(kind, res string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(kind, res).Inc()
	}
}

// Nop is the cache used when no backing store is available. Every read misses.
type Nop struct{}

// GetSearch always misses.
func (Nop) GetSearch(context.Context, string) (result.Result, bool) { return result.Result{}, false }

// SetSearch does nothing.
func (Nop) SetSearch(context.Context, string, *result.Result) {}

// GetValues always misses.
func (Nop) GetValues(context.Context, string) ([]string, bool) { return nil, false }

// SetValues does nothing.
func (Nop) SetValues(context.Context, string, []string) {}

// DeleteByPrefix removes nothing.
func (Nop) DeleteByPrefix(context.Context, string) (int, error) { return 0, nil }
