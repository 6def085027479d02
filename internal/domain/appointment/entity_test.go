package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
)

func TestCancel_SetsReason(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusConfirmed)}

	if err := Cancel(ap, "client sick", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ap.Status != string(StatusCancelled) || ap.CancelReason != "client sick" {
		t.Errorf("unexpected appointment state: %+v", ap)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Errorf("cancelled_at: want %v, got %v", now, ap.CancelledAt)
	}
}

func TestCancel_CompletedIsRejected(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusCompleted)}
	err := Cancel(ap, "late", time.Now())
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("want invalid_state, got %v", err)
	}
	if ap.Status != string(StatusCompleted) {
		t.Errorf("status must stay completed, got %s", ap.Status)
	}
}

func TestExpireAndComplete(t *testing.T) {
	now := time.Now()

	ap := &models.Appointment{Status: string(StatusPending)}
	if err := Expire(ap, now); err != nil {
		t.Fatalf("expire: %v", err)
	}
	if ap.ExpiredAt == nil || ap.Status != string(StatusExpired) {
		t.Errorf("unexpected state after expire: %+v", ap)
	}
	if err := Complete(ap, now); err == nil {
		t.Fatal("expired appointment must not complete")
	}
}

func TestConvertToSale(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusConfirmed)}
	if err := ConvertToSale(ap, 0, time.Now()); !httperr.IsBusiness(err, "invalid_sale_id") {
		t.Fatalf("want invalid_sale_id, got %v", err)
	}
	if err := ConvertToSale(ap, 42, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ap.SaleID == nil || *ap.SaleID != 42 || ap.Status != string(StatusConvertedToSale) {
		t.Errorf("unexpected state: %+v", ap)
	}
}
