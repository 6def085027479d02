package appointment

import (
	"context"
	"testing"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

func TestGetAvailability_BlocksBufferedBooking(t *testing.T) {
	e := newEnv(t)
	e.book(t, barberID, haircutID, "12:00")

	uc := NewGetAvailability(e.repo, e.clock, e.cache, domain.DefaultSlotRules())
	got, err := uc.Execute(context.Background(), GetAvailabilityInput{
		BarberID: barberID, ServiceID: haircutID, Date: testDay,
	})
	if err != nil {
		t.Fatalf("availability: %v", err)
	}

	// [12,13) widened by 1h blocks every start in (10, 14)
	for _, blocked := range []string{"10:30 AM", "12:00 PM", "1:30 PM"} {
		for _, s := range got.Slots {
			if s == blocked {
				t.Errorf("slot %s should be blocked", blocked)
			}
		}
	}
	if got.Slots[0] != "8:00 AM" || got.Slots[len(got.Slots)-1] != "4:00 PM" {
		t.Errorf("slots = %v", got.Slots)
	}
}

func TestGetAvailability_CachesFutureDays(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uc := NewGetAvailability(e.repo, e.clock, e.cache, domain.DefaultSlotRules())
	in := GetAvailabilityInput{BarberID: barberID, ServiceID: haircutID, Date: testDay}

	first, err := uc.Execute(ctx, in)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if e.cache.size() != 1 {
		t.Fatalf("cache entries = %d, want 1", e.cache.size())
	}

	// a booking drops the cached day
	e.book(t, barberID, haircutID, "08:00")
	if e.cache.size() != 0 {
		t.Fatalf("cache entries after write = %d, want 0", e.cache.size())
	}

	second, err := uc.Execute(ctx, in)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(second.Slots) >= len(first.Slots) {
		t.Errorf("slots did not shrink: %d -> %d", len(first.Slots), len(second.Slots))
	}
}

func TestGetAvailability_SameDayNotCached(t *testing.T) {
	e := newEnv(t)
	uc := NewGetAvailability(e.repo, e.clock, e.cache, domain.DefaultSlotRules())

	got, err := uc.Execute(context.Background(), GetAvailabilityInput{
		BarberID: barberID, ServiceID: haircutID, Date: testNow.Format(timezone.DateLayout),
	})
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	// 07:00 + 2h buffer
	if len(got.Slots) == 0 || got.Slots[0] != "9:00 AM" {
		t.Errorf("slots = %v", got.Slots)
	}
	if e.cache.gets != 0 || e.cache.size() != 0 {
		t.Errorf("cache touched: gets=%d size=%d", e.cache.gets, e.cache.size())
	}
}

func TestGetAvailability_NilCache(t *testing.T) {
	e := newEnv(t)
	uc := NewGetAvailability(e.repo, e.clock, nil, domain.DefaultSlotRules())

	got, err := uc.Execute(context.Background(), GetAvailabilityInput{
		BarberID: barberID, ServiceID: haircutID, Date: "2026-10-18",
	})
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if got.Slots == nil || len(got.Slots) != 0 {
		t.Errorf("sunday slots = %v, want empty", got.Slots)
	}
}

func TestGetAvailability_Validation(t *testing.T) {
	e := newEnv(t)
	uc := NewGetAvailability(e.repo, e.clock, e.cache, domain.DefaultSlotRules())
	ctx := context.Background()

	if _, err := uc.Execute(ctx, GetAvailabilityInput{BarberID: 99, ServiceID: haircutID, Date: testDay}); !httperr.IsBusiness(err, "barber_not_found") {
		t.Errorf("barber err = %v", err)
	}
	if _, err := uc.Execute(ctx, GetAvailabilityInput{BarberID: barberID, ServiceID: 99, Date: testDay}); !httperr.IsBusiness(err, "service_not_found") {
		t.Errorf("service err = %v", err)
	}
	if _, err := uc.Execute(ctx, GetAvailabilityInput{BarberID: barberID, ServiceID: haircutID, Date: "tomorrow"}); !httperr.IsBusiness(err, "invalid_date") {
		t.Errorf("date err = %v", err)
	}
}
