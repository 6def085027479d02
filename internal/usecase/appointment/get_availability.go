package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/dto"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timeofday"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

type GetAvailabilityInput struct {
	BarberID  uint
	ServiceID uint
	Date      string
}

type GetAvailability struct {
	repo  domain.Repository
	clock timezone.Clock
	cache SlotCache
	rules domain.SlotRules
}

func NewGetAvailability(
	repo domain.Repository,
	clock timezone.Clock,
	cache SlotCache,
	rules domain.SlotRules,
) *GetAvailability {
	if cache == nil {
		cache = NopCache{}
	}
	return &GetAvailability{
		repo:  repo,
		clock: clock,
		cache: cache,
		rules: rules,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in GetAvailabilityInput,
) (*dto.AvailabilityDTO, error) {

	if _, err := uc.repo.GetBarber(ctx, in.BarberID); err != nil {
		return nil, lookup(err, "barber_not_found")
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, lookup(err, "service_not_found")
	}

	hours, err := timeofday.ToFractionalHours(service.Duration)
	if err != nil || hours <= 0 {
		return nil, httperr.ErrValidation("invalid_service_duration")
	}

	now := uc.clock.Now()
	day, err := parseDay(in.Date, now.Location())
	if err != nil {
		return nil, err
	}

	out := &dto.AvailabilityDTO{
		BarberID:  in.BarberID,
		ServiceID: in.ServiceID,
		Date:      day.Format(timezone.DateLayout),
	}

	// Same-day results depend on the current time, so only future days
	// are cached.
	cacheable := day.After(timezone.Day(now))
	if cacheable {
		if slots, ok := uc.cache.Get(ctx, in.BarberID, in.ServiceID, out.Date); ok {
			out.Slots = slots
			return out, nil
		}
	}

	existing, err := uc.repo.ListActiveForBarberDay(ctx, in.BarberID, day)
	if err != nil {
		return nil, err
	}
	bookings, err := domain.BookingsFrom(existing)
	if err != nil {
		return nil, err
	}

	out.Slots = domain.ComputeAvailableSlots(bookings, hours, day, now, uc.rules)

	if cacheable {
		uc.cache.Set(ctx, in.BarberID, in.ServiceID, out.Date, out.Slots)
	}

	return out, nil
}
