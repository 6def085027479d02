package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/notify"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ActorID *uint

	BarberID  uint
	ServiceID uint
	Client    domain.ClientRef

	Date      string
	StartTime string
	Address   string

	// Pending marks a booking from the public path that staff still has
	// to accept.
	Pending bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	clock timezone.Clock
	fx    Effects
}

func NewCreateAppointment(
	repo domain.Repository,
	clock timezone.Clock,
	fx Effects,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		clock: clock,
		fx:    fx,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Client
	// --------------------------------------------------
	if in.Client == nil {
		return nil, httperr.ErrValidation("missing_client")
	}
	if err := in.Client.Validate(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Collaborators
	// --------------------------------------------------
	if _, err := uc.repo.GetBarber(ctx, in.BarberID); err != nil {
		return nil, lookup(err, "barber_not_found")
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, lookup(err, "service_not_found")
	}

	if rc, ok := in.Client.(domain.RegisteredClient); ok {
		if _, err := uc.repo.GetClient(ctx, rc.ClientID); err != nil {
			return nil, lookup(err, "client_not_found")
		}
	}

	// --------------------------------------------------
	// Slot
	// --------------------------------------------------
	now := uc.clock.Now()

	day, err := parseDay(in.Date, now.Location())
	if err != nil {
		return nil, err
	}

	plan, err := planSlot(day, in.StartTime, service.Duration)
	if err != nil {
		return nil, err
	}

	if plan.StartsAt().Before(now) {
		return nil, httperr.ErrValidation("in_the_past")
	}

	status := domain.InitialStatus()
	if in.Pending {
		status = domain.StatusPending
	}

	address := in.Address
	if address == "" {
		address = models.DefaultAddress
	}

	ap := &models.Appointment{
		ID:        uuid.New(),
		BarberID:  in.BarberID,
		ServiceID: service.ID,
		Address:   address,
		Status:    string(status),
	}
	plan.apply(ap)
	domain.ApplyClient(ap, in.Client)

	// --------------------------------------------------
	// Check and insert under the barber-day lock
	// --------------------------------------------------
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := ensureFree(ctx, tx, ap.BarberID, plan, uuid.Nil); err != nil {
			return err
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, writeError(ctx, uc.repo, ap.BarberID, &plan, ap.ID, err)
	}

	// --------------------------------------------------
	// After commit
	// --------------------------------------------------
	uc.fx.invalidate(ctx, ap)
	uc.fx.audit(in.ActorID, "appointment_created", ap, map[string]any{
		"barber_id":  ap.BarberID,
		"service_id": ap.ServiceID,
		"date":       ap.DateString(),
		"start_time": ap.StartTime,
		"status":     ap.Status,
	})
	uc.fx.notifyParticipants(
		ctx, uc.repo, ap,
		notify.EventAppointmentCreated,
		"Appointment booked",
		fmt.Sprintf("%s on %s at %s", service.Name, ap.DateString(), ap.StartTime),
	)

	return ap, nil
}
