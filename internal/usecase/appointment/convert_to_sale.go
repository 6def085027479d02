package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

// ConvertToSale links an appointment to the sale recorded for it.
type ConvertToSale struct {
	repo  domain.Repository
	clock timezone.Clock
	fx    Effects
}

func NewConvertToSale(
	repo domain.Repository,
	clock timezone.Clock,
	fx Effects,
) *ConvertToSale {
	return &ConvertToSale{
		repo:  repo,
		clock: clock,
		fx:    fx,
	}
}

func (uc *ConvertToSale) Execute(
	ctx context.Context,
	actorID *uint,
	id uuid.UUID,
	saleID uint,
) (*models.Appointment, error) {

	now := uc.clock.Now()
	ap, err := transition(ctx, uc.repo, id, func(ap *models.Appointment) error {
		return domain.ConvertToSale(ap, saleID, now)
	})
	if err != nil {
		return nil, err
	}

	uc.fx.invalidate(ctx, ap)
	uc.fx.audit(actorID, "appointment_converted_to_sale", ap, map[string]any{"sale_id": saleID})

	return ap, nil
}
