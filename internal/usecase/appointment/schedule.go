package appointment

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timeofday"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

// slotPlan is a validated (date, start, service) triple with everything
// derived from it.
type slotPlan struct {
	Day     time.Time
	Start   string
	End     string
	Actual  string
	Rounded int
	Window  domain.Interval
}

func parseDay(date string, loc *time.Location) (time.Time, error) {
	day, err := timezone.ParseDate(date, loc)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date")
	}
	return day, nil
}

// planSlot derives the schedule fields for a booking of duration
// ("HH:MM:SS") starting at start on day.
func planSlot(day time.Time, start, duration string) (slotPlan, error) {
	clock, err := timeofday.Normalize(start)
	if err != nil {
		return slotPlan{}, httperr.ErrValidation("invalid_time")
	}

	d, err := timeofday.ParseDuration(duration)
	if err != nil || d <= 0 {
		return slotPlan{}, httperr.ErrValidation("invalid_service_duration")
	}
	actual := timeofday.FormatClock(d.Hours())

	end, err := timeofday.AddDuration(clock, actual)
	if err != nil {
		return slotPlan{}, httperr.ErrValidation("outside_business_day")
	}

	rounded, err := timeofday.RoundDurationToSlot(actual)
	if err != nil {
		return slotPlan{}, httperr.ErrValidation("invalid_service_duration")
	}

	s, _ := timeofday.ToFractionalHours(clock)
	e, _ := timeofday.ToFractionalHours(end)

	return slotPlan{
		Day:     day,
		Start:   clock,
		End:     end,
		Actual:  actual,
		Rounded: rounded,
		Window:  domain.Interval{Start: s, End: e},
	}, nil
}

// StartsAt is the absolute start instant in the day's location.
func (p slotPlan) StartsAt() time.Time {
	secs := int(math.Round(p.Window.Start * 3600))
	return time.Date(
		p.Day.Year(), p.Day.Month(), p.Day.Day(),
		secs/3600, (secs%3600)/60, secs%60, 0,
		p.Day.Location(),
	)
}

func (p slotPlan) apply(ap *models.Appointment) {
	ap.Date = datatypes.Date(p.Day)
	ap.StartTime = p.Start
	ap.EndTime = p.End
	ap.ActualDuration = p.Actual
	ap.RoundedDuration = p.Rounded
}

// otherBookings lists the barber's time-blocking bookings on day, minus
// self.
func otherBookings(
	ctx context.Context,
	repo domain.Repository,
	barberID uint,
	day time.Time,
	self uuid.UUID,
) ([]domain.Booking, error) {

	existing, err := repo.ListActiveForBarberDay(ctx, barberID, day)
	if err != nil {
		return nil, err
	}

	others := existing[:0]
	for _, ap := range existing {
		if ap.ID != self {
			others = append(others, ap)
		}
	}
	return domain.BookingsFrom(others)
}

// ensureFree locks the barber's day and rejects the plan if it overlaps
// any time-blocking booking other than self. Must run inside a transaction.
func ensureFree(
	ctx context.Context,
	tx domain.Repository,
	barberID uint,
	plan slotPlan,
	self uuid.UUID,
) error {

	if err := tx.LockBarberDay(ctx, barberID, plan.Day); err != nil {
		return fmt.Errorf("lock barber day: %w", err)
	}

	bookings, err := otherBookings(ctx, tx, barberID, plan.Day, self)
	if err != nil {
		return err
	}

	if conflicts := domain.FindConflicts(plan.Window, bookings); len(conflicts) > 0 {
		return domain.ConflictError(conflicts)
	}
	return nil
}

// writeError maps a constraint violation raised by the database into the
// same conflict callers get from the in-process check. The day is read
// again after the rollback to name the rows that won.
func writeError(
	ctx context.Context,
	repo domain.Repository,
	barberID uint,
	plan *slotPlan,
	self uuid.UUID,
	err error,
) error {

	if !httperr.IsExclusionConflict(err) {
		return err
	}
	if plan == nil {
		return httperr.ErrConflict("time_conflict", nil)
	}

	bookings, lerr := otherBookings(ctx, repo, barberID, plan.Day, self)
	if lerr != nil {
		log.Printf("conflict lookup after constraint violation: %v", lerr)
		return httperr.ErrConflict("time_conflict", nil)
	}
	return domain.ConflictError(domain.FindConflicts(plan.Window, bookings))
}
