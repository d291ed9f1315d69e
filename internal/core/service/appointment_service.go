package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/ports"
)

type appointmentService struct {
	backend ports.AppointmentBackend
	now     func() time.Time
	log     zerolog.Logger
}

// NewAppointmentService returns an AppointmentService that checks bookings
// locally before handing them to backend.
func NewAppointmentService(backend ports.AppointmentBackend, log zerolog.Logger) ports.AppointmentService {
	return &appointmentService{backend: backend, now: time.Now, log: log}
}

// Book rejects dates before today and submits the booking as pending.
func (s *appointmentService) Book(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if err := a.CheckNotInPast(s.now()); err != nil {
		return nil, err
	}
	if a.HasHMO && strings.TrimSpace(a.HMOProvider) == "" {
		return nil, fmt.Errorf("%w: hmo provider is required when hmo is set", domain.ErrValidation)
	}
	if !a.HasHMO {
		a.HMOProvider = ""
	}
	a.Status = domain.AppointmentPending

	booked, err := s.backend.Book(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("book appointment: %w", err)
	}
	s.log.Info().
		Str("date", booked.Date).
		Str("time", booked.Time).
		Str("physician", booked.Physician).
		Msg("appointment booked")
	return booked, nil
}

func (s *appointmentService) List(ctx context.Context) ([]domain.Appointment, error) {
	items, err := s.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return items, nil
}

// UpdateStatus validates the transition from current before asking the
// backend, which stays authoritative.
func (s *appointmentService) UpdateStatus(ctx context.Context, id string, current, next domain.AppointmentStatus) (*domain.Appointment, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, next)
	}
	if current != "" && !current.CanTransitionTo(next) {
		return nil, fmt.Errorf("update appointment: %w (from %s to %s)", domain.ErrInvalidTransition, current, next)
	}
	updated, err := s.backend.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	s.log.Info().Str("appointment_id", id).Str("status", string(next)).Msg("appointment status updated")
	return updated, nil
}
