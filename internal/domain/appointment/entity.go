package appointment

import (
	"time"

	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusCompleted); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelReason = reason
	ap.CancelledAt = &now
	return nil
}

func Expire(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusExpired); err != nil {
		return err
	}

	ap.Status = string(StatusExpired)
	ap.ExpiredAt = &now
	return nil
}

func ConvertToSale(ap *models.Appointment, saleID uint, now time.Time) error {
	if saleID == 0 {
		return httperr.ErrValidation("invalid_sale_id")
	}
	if err := CanTransition(Status(ap.Status), StatusConvertedToSale); err != nil {
		return err
	}

	ap.Status = string(StatusConvertedToSale)
	ap.SaleID = &saleID
	ap.ConvertedAt = &now
	return nil
}
