package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/notify"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

// UpdateAppointmentInput carries a partial update. Nil fields keep the
// stored value.
type UpdateAppointmentInput struct {
	ActorID *uint
	ID      uuid.UUID

	BarberID  *uint
	ServiceID *uint
	Date      *string
	StartTime *string
	Address   *string
	Client    domain.ClientRef
}

func (in UpdateAppointmentInput) reschedules() bool {
	return in.BarberID != nil || in.ServiceID != nil || in.Date != nil || in.StartTime != nil
}

type UpdateAppointment struct {
	repo  domain.Repository
	clock timezone.Clock
	fx    Effects
}

func NewUpdateAppointment(
	repo domain.Repository,
	clock timezone.Clock,
	fx Effects,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		clock: clock,
		fx:    fx,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.ID)
	if err != nil {
		return nil, lookup(err, "appointment_not_found")
	}

	if domain.Status(ap.Status).IsTerminal() {
		return nil, httperr.ErrState("appointment_not_editable")
	}

	prevBarber, prevDate := ap.BarberID, ap.DateString()

	// --------------------------------------------------
	// Client and address
	// --------------------------------------------------
	if in.Client != nil {
		if err := in.Client.Validate(); err != nil {
			return nil, err
		}
		if rc, ok := in.Client.(domain.RegisteredClient); ok {
			if _, err := uc.repo.GetClient(ctx, rc.ClientID); err != nil {
				return nil, lookup(err, "client_not_found")
			}
		}
		domain.ApplyClient(ap, in.Client)
	}

	if in.Address != nil {
		ap.Address = *in.Address
		if ap.Address == "" {
			ap.Address = models.DefaultAddress
		}
	}

	// --------------------------------------------------
	// Reschedule
	// --------------------------------------------------
	var plan *slotPlan
	if in.reschedules() {
		p, err := uc.replan(ctx, ap, in)
		if err != nil {
			return nil, err
		}
		plan = &p
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if plan != nil {
			if err := ensureFree(ctx, tx, ap.BarberID, *plan, ap.ID); err != nil {
				return err
			}
		}
		if err := tx.SaveAppointment(ctx, ap); err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return httperr.ErrState("stale_state")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, writeError(ctx, uc.repo, ap.BarberID, plan, ap.ID, err)
	}

	// --------------------------------------------------
	// After commit
	// --------------------------------------------------
	uc.fx.cache().Invalidate(ctx, prevBarber, prevDate)
	uc.fx.invalidate(ctx, ap)
	uc.fx.audit(in.ActorID, "appointment_updated", ap, map[string]any{
		"barber_id":  ap.BarberID,
		"service_id": ap.ServiceID,
		"date":       ap.DateString(),
		"start_time": ap.StartTime,
	})
	uc.fx.notifyParticipants(
		ctx, uc.repo, ap,
		notify.EventAppointmentUpdated,
		"Appointment updated",
		fmt.Sprintf("Now on %s at %s", ap.DateString(), ap.StartTime),
	)

	return ap, nil
}

// replan resolves the new barber, service, date and start and writes the
// derived schedule fields onto ap.
func (uc *UpdateAppointment) replan(
	ctx context.Context,
	ap *models.Appointment,
	in UpdateAppointmentInput,
) (slotPlan, error) {

	if in.BarberID != nil {
		barber, err := uc.repo.GetBarber(ctx, *in.BarberID)
		if err != nil {
			return slotPlan{}, lookup(err, "barber_not_found")
		}
		ap.BarberID = barber.ID
		ap.Barber = *barber
	}

	// A reschedule keeps the duration copied at booking; only a new
	// service brings a new one.
	duration := ap.ActualDuration
	var service *models.Service
	if in.ServiceID != nil || duration == "" {
		id := ap.ServiceID
		if in.ServiceID != nil {
			id = *in.ServiceID
		}
		s, err := uc.repo.GetService(ctx, id)
		if err != nil {
			return slotPlan{}, lookup(err, "service_not_found")
		}
		service = s
		duration = s.Duration
	}

	now := uc.clock.Now()

	date := ap.DateString()
	if in.Date != nil {
		date = *in.Date
	}
	day, err := parseDay(date, now.Location())
	if err != nil {
		return slotPlan{}, err
	}

	start := ap.StartTime
	if in.StartTime != nil {
		start = *in.StartTime
	}
	plan, err := planSlot(day, start, duration)
	if err != nil {
		return slotPlan{}, err
	}

	if plan.StartsAt().Before(now) {
		return slotPlan{}, httperr.ErrValidation("in_the_past")
	}

	plan.apply(ap)
	if service != nil {
		ap.ServiceID = service.ID
		ap.Service = *service
	}
	return plan, nil
}
