package redis

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kailas-cloud/dirsearch/internal/db"
)

// --- round trips against an in-process server ---

func setupMiniredis(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewStore(Config{Addrs: []string{mr.Addr()}})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(s.Close)
	return s, mr
}

func TestMiniredis_SetWithTTLExpires(t *testing.T) {
	s, mr := setupMiniredis(t)
	ctx := context.Background()

	if err := s.SetWithTTL(ctx, "search:acme:abc", []byte(`{"total":1}`), 300*time.Second); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "search:acme:abc")
	if err != nil || string(got) != `{"total":1}` {
		t.Fatalf("get = %q, %v", got, err)
	}

	mr.FastForward(301 * time.Second)
	if _, err := s.Get(ctx, "search:acme:abc"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("after ttl: err = %v, want ErrKeyNotFound", err)
	}
}

func TestMiniredis_ScanAndDelMulti(t *testing.T) {
	s, mr := setupMiniredis(t)
	ctx := context.Background()

	for _, k := range []string{"search:acme:1", "search:acme:2", "autocomplete:acme:3", "search:acme2:4"} {
		if err := mr.Set(k, "v"); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.Scan(ctx, "search:acme:*")
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "search:acme:1" || keys[1] != "search:acme:2" {
		t.Fatalf("scan = %v", keys)
	}

	n, err := s.DelMulti(ctx, append(keys, "search:acme:missing"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
	if !mr.Exists("search:acme2:4") || !mr.Exists("autocomplete:acme:3") {
		t.Error("unrelated keys removed")
	}
}

func TestMiniredis_LPushTrimCapsList(t *testing.T) {
	s, mr := setupMiniredis(t)
	ctx := context.Background()

	for _, v := range []string{"a", "b", "c", "d"} {
		if err := s.LPushTrim(ctx, "analytics:acme:events", []byte(v), 3); err != nil {
			t.Fatal(err)
		}
	}
	list, err := mr.List("analytics:acme:events")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0] != "d" || list[2] != "b" {
		t.Errorf("list = %v, want [d c b]", list)
	}
}

func TestMiniredis_IncrByAndExpire(t *testing.T) {
	s, mr := setupMiniredis(t)
	ctx := context.Background()

	for range 3 {
		if err := s.IncrBy(ctx, "analytics:acme:searches:20261017", 1); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Expire(ctx, "analytics:acme:searches:20261017", 48*time.Hour, false); err != nil {
		t.Fatal(err)
	}

	got, err := mr.Get("analytics:acme:searches:20261017")
	if err != nil || got != "3" {
		t.Errorf("counter = %q, %v", got, err)
	}
	if ttl := mr.TTL("analytics:acme:searches:20261017"); ttl != 48*time.Hour {
		t.Errorf("ttl = %v", ttl)
	}
}

func TestMiniredis_PingAfterServerClose(t *testing.T) {
	s, mr := setupMiniredis(t)
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	mr.Close()

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := s.Ping(ctx); !isDBError(err) {
		t.Errorf("ping after close: %v, want *db.Error", err)
	}
}
