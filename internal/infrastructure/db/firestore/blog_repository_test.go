package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(status.Error(codes.NotFound, "no such document")) {
		t.Fatalf("expected NotFound to match")
	}
	if !isNotFound(fmt.Errorf("wrapped: %w", status.Error(codes.NotFound, "gone"))) {
		t.Fatalf("expected wrapped NotFound to match")
	}
	if isNotFound(status.Error(codes.Unavailable, "down")) || isNotFound(errors.New("plain")) {
		t.Fatalf("other errors must not match")
	}
}

func TestPostMapping(t *testing.T) {
	now := time.Date(2025, 4, 2, 8, 30, 0, 0, time.FixedZone("WAT", 3600))
	doc := toFirestorePost(&domain.BlogPost{Title: "t", CreatedAt: now, UpdatedAt: now})
	if doc.Tags == nil {
		t.Fatalf("tags must be stored as an empty array")
	}
	back := toDomainPost("abc", &doc)
	if back.ID != "abc" || back.CreatedAt.Location() != time.UTC || !back.CreatedAt.Equal(now) {
		t.Fatalf("unexpected mapping: %+v", back)
	}
}

// Runs against the Firestore emulator when FIRESTORE_EMULATOR_HOST is set.
func TestBlogRepository_Emulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, Config{ProjectID: "portal-test"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	repo := NewBlogRepository(client)
	base := time.Now().UTC().Truncate(time.Millisecond)
	created, err := repo.Create(ctx, &domain.BlogPost{Title: "first", CreatedAt: base, UpdatedAt: base})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(ctx, created.ID) })

	got, err := repo.Get(ctx, created.ID)
	if err != nil || got.Title != "first" {
		t.Fatalf("unexpected get: %+v, %v", got, err)
	}
	if _, err := repo.Get(ctx, "does-not-exist"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if err := repo.Update(ctx, &domain.BlogPost{ID: "does-not-exist"}); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound on update, got %v", err)
	}
	if err := repo.Delete(ctx, "does-not-exist"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound on delete, got %v", err)
	}
}
