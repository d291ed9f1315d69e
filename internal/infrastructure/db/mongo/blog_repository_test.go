package mongo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
)

func TestPostMapping(t *testing.T) {
	created := time.Date(2025, 4, 2, 8, 30, 15, 123e6, time.UTC)
	p := &domain.BlogPost{
		Title:       "Flu season",
		Content:     "<p>Get vaccinated.</p>",
		ReadMinutes: 1,
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Hour),
	}

	doc := fromDomainPost(p)
	if doc.Tags == nil {
		t.Fatalf("tags must be stored as an empty array")
	}
	back := toDomainPost(&doc)
	if !back.CreatedAt.Equal(created) || !back.UpdatedAt.Equal(created.Add(time.Hour)) {
		t.Fatalf("timestamps lost precision: %s / %s", back.CreatedAt, back.UpdatedAt)
	}
	if back.Title != p.Title || back.ReadMinutes != 1 {
		t.Fatalf("unexpected mapping: %+v", back)
	}
	if !millisToTime(0).IsZero() {
		t.Fatalf("zero millis must map to the zero time")
	}
}

// Runs against a real MongoDB when MONGO_URI is set.
func TestBlogRepository_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: "portal_test_" + uuid.NewString()[:8]})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	repo := NewBlogRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}

	base := time.Now().UTC().Truncate(time.Millisecond)
	older, err := repo.Create(ctx, &domain.BlogPost{Title: "older", CreatedAt: base, UpdatedAt: base})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	newer, _ := repo.Create(ctx, &domain.BlogPost{Title: "newer", CreatedAt: base.Add(time.Minute), UpdatedAt: base})

	posts, err := repo.List(ctx)
	if err != nil || len(posts) != 2 || posts[0].ID != newer.ID {
		t.Fatalf("expected newest first, got %v, %v", posts, err)
	}

	older.Title = "older, edited"
	if err := repo.Update(ctx, older); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.Get(ctx, older.ID)
	if err != nil || got.Title != "older, edited" {
		t.Fatalf("unexpected get: %+v, %v", got, err)
	}

	if err := repo.Delete(ctx, older.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, older.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "not-an-object-id"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound for malformed id, got %v", err)
	}
}
