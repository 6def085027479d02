package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

type ExpireAppointment struct {
	repo  domain.Repository
	clock timezone.Clock
	fx    Effects
}

func NewExpireAppointment(
	repo domain.Repository,
	clock timezone.Clock,
	fx Effects,
) *ExpireAppointment {
	return &ExpireAppointment{
		repo:  repo,
		clock: clock,
		fx:    fx,
	}
}

func (uc *ExpireAppointment) Execute(
	ctx context.Context,
	actorID *uint,
	id uuid.UUID,
) (*models.Appointment, error) {

	now := uc.clock.Now()
	ap, err := transition(ctx, uc.repo, id, func(ap *models.Appointment) error {
		return domain.Expire(ap, now)
	})
	if err != nil {
		return nil, err
	}

	uc.fx.invalidate(ctx, ap)
	uc.fx.audit(actorID, "appointment_expired", ap, nil)

	return ap, nil
}
