package api

import (
	"net/url"
	"testing"
	"time"

	"skycast/session"
	"skycast/viewmodel"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return u
}

func TestSessionRegistry(t *testing.T) {
	built := 0
	r := NewSessionRegistry(func() *session.Session {
		built++
		return session.New(stubGeocoder{}, stubForecasts{}, viewmodel.DefaultOptions(), nil)
	})

	id, s1, created := r.GetOrCreate("")
	if !created || id == "" || s1 == nil {
		t.Fatalf("expected a new session, got %q %v", id, created)
	}
	sameID, s2, created := r.GetOrCreate(id)
	if created || sameID != id || s1 != s2 {
		t.Error("known id should return the existing session")
	}
	otherID, _, created := r.GetOrCreate("forged-id")
	if !created || otherID == "forged-id" {
		t.Error("unknown ids must not be adopted")
	}
	if built != 2 || r.Len() != 2 || len(r.Sessions()) != 2 {
		t.Errorf("unexpected registry size: built=%d len=%d", built, r.Len())
	}
	if _, ok := r.Get(id); !ok {
		t.Error("expected Get to find the session")
	}
}

func TestSessionRegistryPrune(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	r := NewSessionRegistry(func() *session.Session {
		return session.New(stubGeocoder{}, stubForecasts{}, viewmodel.DefaultOptions(), nil)
	})
	r.now = func() time.Time { return now }

	old, _, _ := r.GetOrCreate("")
	now = now.Add(20 * time.Minute)
	fresh, _, _ := r.GetOrCreate("")
	now = now.Add(20 * time.Minute)

	if pruned := r.Prune(30 * time.Minute); pruned != 1 {
		t.Fatalf("expected 1 pruned session, got %d", pruned)
	}
	if _, ok := r.Get(old); ok {
		t.Error("idle session should be gone")
	}
	if _, ok := r.Get(fresh); !ok {
		t.Error("recent session should stay")
	}
}
