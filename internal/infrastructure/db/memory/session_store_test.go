package memory

import (
	"context"
	"testing"
	"time"
)

func TestSessionStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()

	if tok, err := s.Get(ctx, "a"); err != nil || tok != "" {
		t.Fatalf("expected empty, got %q, %v", tok, err)
	}
	if err := s.Set(ctx, "a", "tok", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if tok, _ := s.Get(ctx, "a"); tok != "tok" {
		t.Fatalf("expected tok, got %q", tok)
	}
	if tok, _ := s.Get(ctx, "b"); tok != "" {
		t.Fatalf("sessions must be isolated, got %q", tok)
	}
	_ = s.Delete(ctx, "a")
	if tok, _ := s.Get(ctx, "a"); tok != "" {
		t.Fatalf("expected deleted, got %q", tok)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionStore()
	s.now = func() time.Time { return now }

	_ = s.Set(ctx, "a", "tok", time.Minute)
	_ = s.Set(ctx, "b", "forever", 0)

	now = now.Add(59 * time.Second)
	if tok, _ := s.Get(ctx, "a"); tok != "tok" {
		t.Fatalf("expected live token, got %q", tok)
	}

	now = now.Add(time.Second)
	if tok, _ := s.Get(ctx, "a"); tok != "" {
		t.Fatalf("expected expired token, got %q", tok)
	}
	if s.Len() != 1 {
		t.Fatalf("expected one live entry, got %d", s.Len())
	}
}
