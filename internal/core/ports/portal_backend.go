package ports

import (
	"context"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
)

// AppointmentBackend books and manages appointments on the REST backend.
type AppointmentBackend interface {
	Book(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	List(ctx context.Context) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
}

// DoctorBackend covers the public doctor listing and the doctor's own
// profile and availability.
type DoctorBackend interface {
	List(ctx context.Context) ([]domain.DoctorProfile, error)
	Profile(ctx context.Context) (*domain.DoctorProfile, error)
	UpdateProfile(ctx context.Context, p *domain.DoctorProfile) (*domain.DoctorProfile, error)
	Availability(ctx context.Context, date string) (*domain.Availability, error)
	// ReplaceAvailability overwrites the full slot array for a date.
	ReplaceAvailability(ctx context.Context, a *domain.Availability) (*domain.Availability, error)
}
