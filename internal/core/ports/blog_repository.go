package ports

import (
	"context"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
)

// BlogRepository is the single source of truth for blog posts.
type BlogRepository interface {
	// List returns every post ordered by creation time, newest first.
	List(ctx context.Context) ([]*domain.BlogPost, error)
	Get(ctx context.Context, id string) (*domain.BlogPost, error)
	Create(ctx context.Context, p *domain.BlogPost) (*domain.BlogPost, error)
	Update(ctx context.Context, p *domain.BlogPost) error
	Delete(ctx context.Context, id string) error
}
