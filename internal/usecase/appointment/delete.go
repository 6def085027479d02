package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
)

// DeleteAppointment removes the row outright, whatever its status.
// Administrative only.
type DeleteAppointment struct {
	repo domain.Repository
	fx   Effects
}

func NewDeleteAppointment(
	repo domain.Repository,
	fx Effects,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo: repo,
		fx:   fx,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	actorID *uint,
	id uuid.UUID,
) error {

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return lookup(err, "appointment_not_found")
	}

	deleted, err := uc.repo.DeleteAppointment(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return httperr.ErrNotFound("appointment_not_found")
	}

	uc.fx.invalidate(ctx, ap)
	uc.fx.audit(actorID, "appointment_deleted", ap, map[string]any{
		"status":     ap.Status,
		"date":       ap.DateString(),
		"start_time": ap.StartTime,
	})

	return nil
}
