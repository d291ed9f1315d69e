package domain

import (
	"errors"
	"time"
)

// AppointmentStatus is the lifecycle state of a booking.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// DateLayout is the calendar date format used by bookings and availability.
const DateLayout = "2006-01-02"

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDateInPast        = errors.New("appointment date is in the past")
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:   {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCancelled, AppointmentPending},
}

// CanTransitionTo reports whether an appointment in status s may move to next.
// Setting the current status again is always allowed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCancelled:
		return true
	}
	return false
}

// Appointment is a patient booking. The backend owns it; the portal submits
// and displays it.
type Appointment struct {
	ID            string            `json:"id,omitempty"`
	FullName      string            `json:"fullName"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	HasHMO        bool              `json:"hasHMO"`
	HMOProvider   string            `json:"hmoProvider,omitempty"`
	VisitedBefore bool              `json:"visitedBefore"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	Physician     string            `json:"physician,omitempty"`
	Reason        string            `json:"reason,omitempty"`
	Status        AppointmentStatus `json:"status,omitempty"`
	CreatedAt     *time.Time        `json:"createdAt,omitempty"`
}

// CheckNotInPast returns ErrDateInPast when the appointment date lies before
// the calendar day of now.
func (a *Appointment) CheckNotInPast(now time.Time) error {
	day, err := time.ParseInLocation(DateLayout, a.Date, now.Location())
	if err != nil {
		return ErrValidation
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return ErrDateInPast
	}
	return nil
}
