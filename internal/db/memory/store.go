// Package memory is an in-process db.Store backed by a bounded LRU.
//
// Entries carry their own expiry and are checked against an injectable clock on
// every read, so TTL behaviour can be tested without sleeping.
package memory

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kailas-cloud/dirsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultSize is the number of keys kept when no size is configured.
const DefaultSize = 10000

type entry struct {
	value     []byte
	list      [][]byte
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store implements db.Store in memory.
type Store struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *entry]
	now   func() time.Time
}

// NewStore creates a store holding at most size keys.
func NewStore(size int, opts ...Option) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	cache, _ := lru.New[string, *entry](size)
	s := &Store{cache: cache, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close drops all entries.
func (s *Store) Close() { s.cache.Purge() }

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// lookup returns a live entry, evicting it when expired. Caller holds mu.
func (s *Store) lookup(key string) (*entry, bool) {
	e, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	if e.expired(s.now()) {
		s.cache.Remove(key)
		return nil, false
	}
	return e, true
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key)
	if !ok || e.value == nil {
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores a value without expiry.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Add(key, &entry{value: append([]byte(nil), value...)})
	return nil
}

// SetWithTTL stores a value that expires after ttl.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return &db.Error{Op: db.OpSet, Err: fmt.Errorf("invalid ttl %s", ttl)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Add(key, &entry{
		value:     append([]byte(nil), value...),
		expiresAt: s.now().Add(ttl),
	})
	return nil
}

// IncrBy increments the integer stored at key, creating it at zero.
func (s *Store) IncrBy(_ context.Context, key string, val int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key)
	if !ok {
		s.cache.Add(key, &entry{value: []byte(strconv.FormatInt(val, 10))})
		return nil
	}
	cur, err := strconv.ParseInt(string(e.value), 10, 64)
	if err != nil {
		return &db.Error{Op: db.OpIncrBy, Err: fmt.Errorf("value is not an integer: %w", err)}
	}
	e.value = []byte(strconv.FormatInt(cur+val, 10))
	return nil
}

// Expire sets a TTL on an existing key. With nx it only applies when the key has no TTL.
func (s *Store) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key)
	if !ok {
		return nil
	}
	if nx && !e.expiresAt.IsZero() {
		return nil
	}
	e.expiresAt = s.now().Add(ttl)
	return nil
}

// Del removes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Remove(key)
	return nil
}

// DelMulti removes keys and returns how many were live.
func (s *Store) DelMulti(_ context.Context, keys []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for _, k := range keys {
		if _, ok := s.lookup(k); ok {
			s.cache.Remove(k)
			deleted++
		}
	}
	return deleted, nil
}

// Scan returns live keys matching a glob pattern.
func (s *Store) Scan(_ context.Context, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for _, k := range s.cache.Keys() {
		if ok, _ := path.Match(pattern, k); !ok {
			continue
		}
		if _, live := s.lookup(k); live {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// LPushTrim prepends value and keeps the newest maxLen items.
func (s *Store) LPushTrim(_ context.Context, key string, value []byte, maxLen int) error {
	if maxLen <= 0 {
		return &db.Error{Op: db.OpLTrim, Err: fmt.Errorf("invalid max length %d", maxLen)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key)
	if !ok {
		e = &entry{}
		s.cache.Add(key, e)
	}
	if e.value != nil {
		return &db.Error{Op: db.OpLPush, Err: fmt.Errorf("key %s holds a string value", key)}
	}
	e.list = append([][]byte{append([]byte(nil), value...)}, e.list...)
	if len(e.list) > maxLen {
		e.list = e.list[:maxLen]
	}
	return nil
}

// List returns a copy of the list stored at key, newest first.
func (s *Store) List(key string) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key)
	if !ok {
		return nil
	}
	out := make([][]byte, len(e.list))
	copy(out, e.list)
	return out
}
