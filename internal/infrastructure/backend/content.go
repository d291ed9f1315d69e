package backend

import (
	"context"
	"net/http"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
)

type TestimonialsService struct{ c *Client }

func (s *TestimonialsService) List(ctx context.Context) ([]domain.Testimonial, error) {
	var out envelope[[]domain.Testimonial]
	if err := s.c.do(ctx, request{method: http.MethodGet, path: "/testimonials"}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

type EventsService struct{ c *Client }

func (s *EventsService) List(ctx context.Context) ([]domain.Event, error) {
	var out envelope[[]domain.Event]
	if err := s.c.do(ctx, request{method: http.MethodGet, path: "/events"}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

type NewsletterService struct{ c *Client }

// Subscribe registers email and returns the backend's confirmation message.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (string, error) {
	var out envelope[any]
	body := domain.NewsletterSubscription{Email: email}
	if err := s.c.do(ctx, request{method: http.MethodPost, path: "/newsletter/subscribe", body: body}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
