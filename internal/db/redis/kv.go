package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/dirsearch/internal/db"
)

// delBatchSize bounds the number of DEL commands sent in one DoMulti round-trip.
const delBatchSize = 500

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// SetWithTTL stores a value with an expiration.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// IncrBy atomically increments a key by the given amount.
func (s *Store) IncrBy(ctx context.Context, key string, val int64) error {
	cmd := s.b().Incrby().Key(key).Increment(val).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpIncrBy, Err: err}
	}
	return nil
}

// Expire sets TTL on a key. When nx=true, sets TTL only if the key has no expiry yet (EXPIRE NX).
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	var cmd rueidis.Completed
	if nx {
		cmd = s.b().Expire().Key(key).Seconds(int64(ttl.Seconds())).Nx().Build()
	} else {
		cmd = s.b().Expire().Key(key).Seconds(int64(ttl.Seconds())).Build()
	}
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpExpire, Err: err}
	}
	return nil
}

// Del removes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// DelMulti removes keys in batches and returns how many existed.
// Each key gets its own DEL so keys may live in different cluster slots.
func (s *Store) DelMulti(ctx context.Context, keys []string) (int, error) {
	deleted := 0
	for start := 0; start < len(keys); start += delBatchSize {
		end := min(start+delBatchSize, len(keys))
		cmds := make(rueidis.Commands, 0, end-start)
		for _, k := range keys[start:end] {
			cmds = append(cmds, s.b().Del().Key(k).Build())
		}

		for i, res := range s.client.DoMulti(ctx, cmds...) {
			n, err := res.AsInt64()
			if err != nil {
				return deleted, &db.Error{Op: db.OpDel, Err: fmt.Errorf("key %s: %w", keys[start+i], err)}
			}
			deleted += int(n)
		}
	}
	return deleted, nil
}

// Scan iterates keys matching a pattern on every node the client knows about.
// Keys seen on more than one node (replicas) are returned once.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	seen := make(map[string]struct{})

	for addr, node := range s.client.Nodes() {
		var cursor uint64
		for {
			cmd := node.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
			res, err := node.Do(ctx, cmd).AsScanEntry()
			if err != nil {
				return nil, &db.Error{Op: db.OpScan, Err: fmt.Errorf("node %s: %w", addr, err)}
			}
			for _, k := range res.Elements {
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
			cursor = res.Cursor
			if cursor == 0 {
				break
			}
		}
	}

	return keys, nil
}

// LPushTrim prepends value and caps the list in a single DoMulti round-trip.
func (s *Store) LPushTrim(ctx context.Context, key string, value []byte, maxLen int) error {
	if maxLen <= 0 {
		return &db.Error{Op: db.OpLTrim, Err: fmt.Errorf("invalid max length %d", maxLen)}
	}
	cmds := rueidis.Commands{
		s.b().Lpush().Key(key).Element(rueidis.BinaryString(value)).Build(),
		s.b().Ltrim().Key(key).Start(0).Stop(int64(maxLen - 1)).Build(),
	}
	results := s.client.DoMulti(ctx, cmds...)
	if err := results[0].Error(); err != nil {
		return &db.Error{Op: db.OpLPush, Err: err}
	}
	if err := results[1].Error(); err != nil {
		return &db.Error{Op: db.OpLTrim, Err: fmt.Errorf("key %s: %w", key, err)}
	}
	return nil
}
