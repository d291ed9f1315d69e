package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/ports"
)

// DoctorsService covers /doctors, /doctors/profile and /doctors/availability.
type DoctorsService struct{ c *Client }

var _ ports.DoctorBackend = (*DoctorsService)(nil)

func (s *DoctorsService) List(ctx context.Context) ([]domain.DoctorProfile, error) {
	var out envelope[[]domain.DoctorProfile]
	if err := s.c.do(ctx, request{method: http.MethodGet, path: "/doctors"}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (s *DoctorsService) Profile(ctx context.Context) (*domain.DoctorProfile, error) {
	var out envelope[*domain.DoctorProfile]
	if err := s.c.do(ctx, request{method: http.MethodGet, path: "/doctors/profile"}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (s *DoctorsService) UpdateProfile(ctx context.Context, p *domain.DoctorProfile) (*domain.DoctorProfile, error) {
	var out envelope[*domain.DoctorProfile]
	if err := s.c.do(ctx, request{method: http.MethodPut, path: "/doctors/profile", body: p}, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return p, nil
	}
	return out.Data, nil
}

func (s *DoctorsService) Availability(ctx context.Context, date string) (*domain.Availability, error) {
	var out envelope[*domain.Availability]
	r := request{method: http.MethodGet, path: "/doctors/availability", query: url.Values{"date": {date}}}
	if err := s.c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return &domain.Availability{Date: date, Slots: []domain.TimeSlot{}}, nil
	}
	return out.Data, nil
}

// ReplaceAvailability sends the complete slot array for a.Date; the backend
// has no partial update.
func (s *DoctorsService) ReplaceAvailability(ctx context.Context, a *domain.Availability) (*domain.Availability, error) {
	var out envelope[*domain.Availability]
	if err := s.c.do(ctx, request{method: http.MethodPut, path: "/doctors/availability", body: a}, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return a, nil
	}
	return out.Data, nil
}
