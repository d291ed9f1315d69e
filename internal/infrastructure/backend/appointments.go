package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/ports"
)

// AppointmentsService covers /appointments.
type AppointmentsService struct{ c *Client }

var _ ports.AppointmentBackend = (*AppointmentsService)(nil)

func (s *AppointmentsService) Book(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	var out envelope[*domain.Appointment]
	if err := s.c.do(ctx, request{method: http.MethodPost, path: "/appointments", body: a}, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return a, nil
	}
	return out.Data, nil
}

// List returns the appointments visible to the bound session: all of them
// for admins, the doctor's own for doctors. Scoping is done by the backend.
func (s *AppointmentsService) List(ctx context.Context) ([]domain.Appointment, error) {
	var out envelope[[]domain.Appointment]
	if err := s.c.do(ctx, request{method: http.MethodGet, path: "/appointments"}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// UpdateStatus rejects empty and dot-segment ids locally; JoinPath would
// otherwise clean them into a different backend route.
func (s *AppointmentsService) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	if id == "" || id == "." || id == ".." {
		return nil, &Error{Kind: KindValidation, Status: http.StatusUnprocessableEntity, Message: "invalid appointment id"}
	}
	var out envelope[*domain.Appointment]
	r := request{
		method: http.MethodPatch,
		path:   "/appointments/" + url.PathEscape(id) + "/status",
		body:   map[string]domain.AppointmentStatus{"status": status},
	}
	if err := s.c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
