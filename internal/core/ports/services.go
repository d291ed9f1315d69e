package ports

import (
	"context"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
)

// BlogPostInput carries the authored fields of a post.
type BlogPostInput struct {
	Title         string
	Description   string
	Content       string
	Tags          []string
	FeaturedImage string
	Author        string
}

// BlogPage is one client-side page of the post list.
type BlogPage struct {
	Items      []*domain.BlogPost `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"perPage"`
	TotalPages int                `json:"totalPages"`
}

type BlogService interface {
	List(ctx context.Context, page, perPage int) (*BlogPage, error)
	Get(ctx context.Context, id string) (*domain.BlogPost, error)
	Create(ctx context.Context, in BlogPostInput) (*domain.BlogPost, error)
	Update(ctx context.Context, id string, in BlogPostInput) (*domain.BlogPost, error)
	Delete(ctx context.Context, id string) error
}

type AppointmentService interface {
	Book(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	List(ctx context.Context) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, current, next domain.AppointmentStatus) (*domain.Appointment, error)
}
