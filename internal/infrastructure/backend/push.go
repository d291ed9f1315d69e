package backend

import (
	"context"
	"net/http"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
)

// PushService covers the push-subscription endpoints.
type PushService struct{ c *Client }

type vapidKeyResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	PublicKey string `json:"publicKey"`
}

// VAPIDPublicKey returns the application server key. A response with
// success=false or without a key is an error.
func (s *PushService) VAPIDPublicKey(ctx context.Context) (string, error) {
	var out vapidKeyResponse
	if err := s.c.do(ctx, request{method: http.MethodGet, path: "/notifications/vapid-public-key"}, &out); err != nil {
		return "", err
	}
	if !out.Success || out.PublicKey == "" {
		msg := out.Message
		if msg == "" {
			msg = "push notifications are not configured"
		}
		return "", &Error{Kind: KindServer, Status: http.StatusOK, Message: msg}
	}
	return out.PublicKey, nil
}

type saveResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// SaveSubscription persists sub. An explicit success=false is a rejection.
func (s *PushService) SaveSubscription(ctx context.Context, sub *domain.PushSubscription) error {
	var out saveResponse
	if err := s.c.do(ctx, request{method: http.MethodPost, path: "/notifications/subscribe", body: sub}, &out); err != nil {
		return err
	}
	if out.Success != nil && !*out.Success {
		msg := out.Message
		if msg == "" {
			msg = "subscription was rejected"
		}
		return &Error{Kind: KindValidation, Status: http.StatusOK, Message: msg}
	}
	return nil
}

func (s *PushService) DeleteSubscription(ctx context.Context, endpoint string) error {
	body := map[string]string{"endpoint": endpoint}
	return s.c.do(ctx, request{method: http.MethodDelete, path: "/notifications/subscribe", body: body}, nil)
}
