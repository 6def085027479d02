package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/notify"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

type CancelAppointment struct {
	repo  domain.Repository
	clock timezone.Clock
	fx    Effects
}

func NewCancelAppointment(
	repo domain.Repository,
	clock timezone.Clock,
	fx Effects,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		clock: clock,
		fx:    fx,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actorID *uint,
	id uuid.UUID,
	reason string,
) (*models.Appointment, error) {

	now := uc.clock.Now()
	ap, err := transition(ctx, uc.repo, id, func(ap *models.Appointment) error {
		return domain.Cancel(ap, reason, now)
	})
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Your appointment on %s at %s was cancelled.", ap.DateString(), ap.StartTime)
	if reason != "" {
		body += " Reason: " + reason
	}

	uc.fx.invalidate(ctx, ap)
	uc.fx.audit(actorID, "appointment_cancelled", ap, map[string]any{"reason": reason})
	uc.fx.notifyParticipants(
		ctx, uc.repo, ap,
		notify.EventAppointmentCancelled,
		"Appointment cancelled",
		body,
	)

	return ap, nil
}
