package domain

import (
	"fmt"
	"time"
)

// TimeSlot is a bookable time label on a given date.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"isAvailable"`
}

// Availability pairs a date with its ordered slots. It is always written as
// a whole: the backend replaces the full slot array.
type Availability struct {
	DoctorID string     `json:"doctorId,omitempty"`
	Date     string     `json:"date"`
	Slots    []TimeSlot `json:"timeSlots"`
}

// Validate checks the date format and that slot labels are present and
// unique. Slot order is preserved as given.
func (a *Availability) Validate() error {
	if _, err := time.Parse(DateLayout, a.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	seen := make(map[string]struct{}, len(a.Slots))
	for i, s := range a.Slots {
		if s.Time == "" {
			return fmt.Errorf("%w: slot %d has no time", ErrValidation, i)
		}
		if _, dup := seen[s.Time]; dup {
			return fmt.Errorf("%w: duplicate slot %q", ErrValidation, s.Time)
		}
		seen[s.Time] = struct{}{}
	}
	return nil
}

// OpenSlots returns the labels of the slots still available, in order.
func (a *Availability) OpenSlots() []string {
	out := make([]string, 0, len(a.Slots))
	for _, s := range a.Slots {
		if s.Available {
			out = append(out, s.Time)
		}
	}
	return out
}
