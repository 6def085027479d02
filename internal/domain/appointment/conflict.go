package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timeofday"
)

// Interval is a half-open [Start, End) window in fractional hours.
type Interval struct {
	Start float64
	End   float64
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Widen grows the interval by pad hours on both sides.
func (i Interval) Widen(pad float64) Interval {
	return Interval{Start: i.Start - pad, End: i.End + pad}
}

// Booking is an existing appointment reduced to what overlap checks need.
type Booking struct {
	ID        string
	StartTime string
	EndTime   string
	Status    Status
	Window    Interval
}

func NewBooking(ap *models.Appointment) (Booking, error) {
	start, err := timeofday.ToFractionalHours(ap.StartTime)
	if err != nil {
		return Booking{}, fmt.Errorf("appointment %s start: %w", ap.ID, err)
	}
	end, err := timeofday.ToFractionalHours(ap.EndTime)
	if err != nil {
		return Booking{}, fmt.Errorf("appointment %s end: %w", ap.ID, err)
	}

	return Booking{
		ID:        ap.ID.String(),
		StartTime: ap.StartTime,
		EndTime:   ap.EndTime,
		Status:    Status(ap.Status),
		Window:    Interval{Start: start, End: end},
	}, nil
}

func BookingsFrom(aps []models.Appointment) ([]Booking, error) {
	out := make([]Booking, 0, len(aps))
	for i := range aps {
		b, err := NewBooking(&aps[i])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// FindConflicts returns every time-blocking booking that overlaps candidate.
// Touching boundaries do not conflict.
func FindConflicts(candidate Interval, existing []Booking) []Booking {
	var conflicts []Booking
	for _, b := range existing {
		if !b.Status.BlocksTime() {
			continue
		}
		if candidate.Overlaps(b.Window) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// HasConflict reports whether candidate overlaps any time-blocking booking.
func HasConflict(candidate Interval, existing []Booking) bool {
	for _, b := range existing {
		if b.Status.BlocksTime() && candidate.Overlaps(b.Window) {
			return true
		}
	}
	return false
}

// ConflictError builds the rejection reported to callers.
func ConflictError(conflicts []Booking) error {
	out := make([]httperr.Conflict, 0, len(conflicts))
	for _, b := range conflicts {
		out = append(out, httperr.Conflict{
			AppointmentID: b.ID,
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
		})
	}
	return httperr.ErrConflict("time_conflict", out)
}
