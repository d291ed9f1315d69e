package service

import (
	"context"
	"testing"
	"time"
)

type recordingSessionStore struct {
	tokens map[string]string
	ttls   map[string]time.Duration
}

func newRecordingSessionStore() *recordingSessionStore {
	return &recordingSessionStore{tokens: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *recordingSessionStore) Get(_ context.Context, id string) (string, error) {
	return s.tokens[id], nil
}

func (s *recordingSessionStore) Set(_ context.Context, id, token string, ttl time.Duration) error {
	s.tokens[id], s.ttls[id] = token, ttl
	return nil
}

func (s *recordingSessionStore) Delete(_ context.Context, id string) error {
	delete(s.tokens, id)
	return nil
}

func TestSessionTokens_BoundToOneSession(t *testing.T) {
	ctx := context.Background()
	store := newRecordingSessionStore()
	a := NewSessionTokens(store, "sess-a", time.Hour)
	b := NewSessionTokens(store, "sess-b", time.Hour)

	if err := a.SetToken(ctx, "tok-a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if tok, _ := b.Token(ctx); tok != "" {
		t.Fatalf("sessions must not share tokens, got %q", tok)
	}
	if tok, _ := a.Token(ctx); tok != "tok-a" {
		t.Fatalf("expected tok-a, got %q", tok)
	}
	if store.ttls["sess-a"] != time.Hour {
		t.Fatalf("expected configured ttl, got %s", store.ttls["sess-a"])
	}

	_ = a.ClearToken(ctx)
	if tok, _ := a.Token(ctx); tok != "" {
		t.Fatalf("expected cleared, got %q", tok)
	}
	if a.ID() != "sess-a" {
		t.Fatalf("unexpected id %q", a.ID())
	}
}

func TestSessionTokens_TTLFollowsTokenExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	store := newRecordingSessionStore()

	tokens := NewSessionTokens(store, "s", 24*time.Hour).WithTokenExpiry(func(token string) (time.Time, bool) {
		switch token {
		case "short":
			return now.Add(30 * time.Minute), true
		case "long":
			return now.Add(48 * time.Hour), true
		case "expired":
			return now.Add(-time.Minute), true
		}
		return time.Time{}, false
	})
	tokens.now = func() time.Time { return now }

	cases := map[string]time.Duration{
		"short":   30 * time.Minute,
		"long":    24 * time.Hour,
		"expired": 24 * time.Hour,
		"opaque":  24 * time.Hour,
	}
	for token, want := range cases {
		_ = tokens.SetToken(ctx, token)
		if got := store.ttls["s"]; got != want {
			t.Errorf("token %q: ttl %s, want %s", token, got, want)
		}
	}
}
