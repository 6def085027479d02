package appointment

import (
	"math"
	"time"

	"github.com/BruksfildServices01/barbershop-appointments/internal/timeofday"
)

const (
	OpeningHour = 8.0
	ClosingHour = 17.0
	SlotStep    = float64(timeofday.SlotMinutes) / 60
)

type AvailabilityInput struct {
	BarberID  uint
	ServiceID uint
	Date      time.Time
}

// SlotRules holds the tunable part of slot computation, in hours.
type SlotRules struct {
	Buffer        float64
	SameDayOffset float64
}

func DefaultSlotRules() SlotRules {
	return SlotRules{Buffer: 1}
}

// ComputeAvailableSlots lists bookable start times for a service of
// serviceHours on date, as ascending 12-hour labels. date and now must share
// a location. Weekends and past days have no slots.
func ComputeAvailableSlots(
	existing []Booking,
	serviceHours float64,
	date time.Time,
	now time.Time,
	rules SlotRules,
) []string {

	slots := []string{}

	if serviceHours <= 0 {
		return slots
	}

	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return slots
	}

	day := truncateDay(date)
	today := truncateDay(now)
	if day.Before(today) {
		return slots
	}

	first := OpeningHour
	if day.Equal(today) {
		earliest := timeofday.FromTime(now) + 2*rules.Buffer + rules.SameDayOffset
		if earliest > first {
			first = OpeningHour + math.Ceil((earliest-OpeningHour)/SlotStep)*SlotStep
		}
	}

	// neighbours are padded by the buffer, then checked like any booking
	blocked := make([]Booking, 0, len(existing))
	for _, b := range existing {
		b.Window = b.Window.Widen(rules.Buffer)
		blocked = append(blocked, b)
	}

	seen := make(map[string]bool)
	steps := int(math.Round((ClosingHour - OpeningHour) / SlotStep))
	for k := 0; k <= steps; k++ {
		t := OpeningHour + float64(k)*SlotStep
		if t < first {
			continue
		}

		candidate := Interval{Start: t, End: t + serviceHours}
		if candidate.End > ClosingHour {
			break
		}

		if HasConflict(candidate, blocked) {
			continue
		}

		label := timeofday.Label12h(t)
		if !seen[label] {
			seen[label] = true
			slots = append(slots, label)
		}
	}

	return slots
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
