package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
)

// transition loads the appointment, applies a domain action and writes the
// new status only if nobody moved it in between.
func transition(
	ctx context.Context,
	repo domain.Repository,
	id uuid.UUID,
	apply func(ap *models.Appointment) error,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, lookup(err, "appointment_not_found")
	}

	from := domain.Status(ap.Status)
	if err := apply(ap); err != nil {
		return nil, err
	}

	ok, err := repo.TransitionStatus(ctx, ap, []domain.Status{from})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrState("stale_state")
	}

	return ap, nil
}
