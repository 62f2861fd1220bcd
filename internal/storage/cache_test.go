package storage

import (
	"bytes"
	"testing"
	"time"

	"github.com/bevzzz/cody/internal/logging"
)

func newTestCache(t *testing.T) *RemoteCache {
	t.Helper()
	db, err := Open(t.TempDir(), logging.Silent())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cache, err := NewRemoteCache(db)
	if err != nil {
		t.Fatalf("NewRemoteCache: %v", err)
	}
	return cache
}

func TestRemoteCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)

	payload := []byte(`{"files":[{"repository":"r","path":"a.go"}]}`)
	if err := cache.Set("primary", "key1", payload, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, found, err := cache.Get("primary", "key1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit")
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload mismatch: got %q", got)
	}
}

func TestRemoteCacheMiss(t *testing.T) {
	cache := newTestCache(t)

	_, found, err := cache.Get("primary", "absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("expected miss for absent key")
	}
}

func TestRemoteCacheExpiry(t *testing.T) {
	cache := newTestCache(t)

	if err := cache.Set("primary", "key1", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found, _ := cache.Get("primary", "key1"); found {
		t.Error("expected expired entry to miss")
	}

	pruned, err := cache.Prune()
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("expected 1 pruned row, got %d", pruned)
	}
}

func TestRemoteCacheClearIsPerServer(t *testing.T) {
	cache := newTestCache(t)

	if err := cache.Set("a", "k", []byte("1"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cache.Set("b", "k", []byte("2"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := cache.Clear("a"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found, _ := cache.Get("a", "k"); found {
		t.Error("server a entry should be gone")
	}
	if _, found, _ := cache.Get("b", "k"); !found {
		t.Error("server b entry should survive")
	}
}
