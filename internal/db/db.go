package db

import (
	"context"
	"time"
)

// Store is the key-value facade combining all sub-interfaces.
// Consumers declare the narrow subset they need (ISP).
type Store interface {
	Pinger
	KVStore
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) (int, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// ListStore provides capped list operations.
type ListStore interface {
	// LPushTrim prepends value and trims the list to its newest maxLen items.
	LPushTrim(ctx context.Context, key string, value []byte, maxLen int) error
}
