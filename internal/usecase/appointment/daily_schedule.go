package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/dto"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

type GetDailySchedule struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewGetDailySchedule(
	repo domain.Repository,
	clock timezone.Clock,
) *GetDailySchedule {
	return &GetDailySchedule{
		repo:  repo,
		clock: clock,
	}
}

func (uc *GetDailySchedule) Execute(
	ctx context.Context,
	date string,
) (*dto.DailyScheduleDTO, error) {

	day, err := parseDay(date, uc.clock.Now().Location())
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListAppointmentsForDate(ctx, day)
	if err != nil {
		return nil, err
	}

	out := &dto.DailyScheduleDTO{
		Date:         day.Format(timezone.DateLayout),
		Appointments: make([]dto.ScheduleEntryDTO, 0, len(appointments)),
	}
	for _, ap := range appointments {
		out.Appointments = append(out.Appointments, dto.ScheduleEntryDTO{
			ID:           ap.ID.String(),
			Date:         ap.DateString(),
			StartTime:    ap.StartTime,
			EndTime:      ap.EndTime,
			Status:       ap.Status,
			Address:      ap.Address,
			BarberID:     ap.BarberID,
			BarberName:   ap.Barber.Name,
			ClientName:   ap.ClientName(),
			WalkIn:       ap.ClientID == nil,
			ServiceName:  ap.Service.Name,
			ServicePrice: ap.Service.Price,
		})
	}

	return out, nil
}
