package appointment

import (
	"context"
	"log"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/notify"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

// ConfirmAppointment marks the service as performed and consumes its
// supplies.
type ConfirmAppointment struct {
	repo  domain.Repository
	clock timezone.Clock
	fx    Effects
}

func NewConfirmAppointment(
	repo domain.Repository,
	clock timezone.Clock,
	fx Effects,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:  repo,
		clock: clock,
		fx:    fx,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	actorID *uint,
	id uuid.UUID,
) (*models.Appointment, error) {

	now := uc.clock.Now()
	ap, err := transition(ctx, uc.repo, id, func(ap *models.Appointment) error {
		return domain.Complete(ap, now)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Inventory, best effort
	// --------------------------------------------------
	for _, line := range ap.Service.Supplies {
		if err := uc.repo.DecrementSupply(ctx, line.SupplyID, line.Quantity); err != nil {
			log.Printf("confirm %s: decrement supply %d: %v", ap.ID, line.SupplyID, err)
		}
	}

	uc.fx.invalidate(ctx, ap)
	uc.fx.audit(actorID, "appointment_completed", ap, nil)
	uc.fx.notifyParticipants(
		ctx, uc.repo, ap,
		notify.EventAppointmentCompleted,
		"Appointment completed",
		"Thanks for your visit.",
	)

	return ap, nil
}
