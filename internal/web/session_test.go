package web

import (
	"testing"
	"time"

	"finance-advisor/internal/advice"
)

func TestSweepEvictsIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewSessionStore(nil, *advice.NewRenderer(nil, nil), 10*time.Minute)
	store.now = func() time.Time { return now }

	var evicted []string
	store.onEvict = func(id string) { evicted = append(evicted, id) }

	old := store.Create()
	now = now.Add(5 * time.Minute)
	fresh := store.Create()

	now = now.Add(6 * time.Minute)
	if n := store.Sweep(); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if _, ok := store.Lookup(old.ID); ok {
		t.Fatalf("old session should be gone")
	}
	if _, ok := store.Lookup(fresh.ID); !ok {
		t.Fatalf("fresh session should remain")
	}
	if len(evicted) != 1 || evicted[0] != old.ID {
		t.Fatalf("unexpected evictions %v", evicted)
	}
}

func TestNewSessionStoreDefaultsTTL(t *testing.T) {
	store := NewSessionStore(nil, advice.Renderer{}, 0)
	if store.TTL() != DefaultSessionTTL {
		t.Fatalf("expected default ttl, got %s", store.TTL())
	}
}

func TestPollLimiterWindow(t *testing.T) {
	now := time.Unix(0, 0)
	l := newPollLimiter(time.Second, func() time.Time { return now })
	if !l.Allow("s") {
		t.Fatalf("first poll should pass")
	}
	if l.Allow("s") {
		t.Fatalf("second poll inside window should fail")
	}
	now = now.Add(time.Second)
	if !l.Allow("s") {
		t.Fatalf("poll after window should pass")
	}
	l.Forget("s")
	if !l.Allow("s") {
		t.Fatalf("forgotten session should pass")
	}
}
