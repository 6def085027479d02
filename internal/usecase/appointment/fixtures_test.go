package appointment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barbershop-appointments/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/notify"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

// Wednesday morning; testDay is the following Monday.
var (
	testNow = time.Date(2026, 10, 14, 7, 0, 0, 0, time.UTC)
	testDay = "2026-10-19"
)

const (
	barberID  uint = 1
	barber2ID uint = 2
	clientID  uint = 10
	haircutID uint = 100
	shaveID   uint = 101
	supplyID  uint = 500
)

type recordingAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAudit) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Action
	}
	return out
}

type recordingNotify struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recordingNotify) Dispatch(msg notify.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]string
	gets        int
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]string{}}
}

func cacheKey(barberID, serviceID uint, date string) string {
	return fmt.Sprintf("%d:%s:%d", barberID, date, serviceID)
}

func (c *fakeCache) Get(_ context.Context, barberID, serviceID uint, date string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	s, ok := c.entries[cacheKey(barberID, serviceID, date)]
	return s, ok
}

func (c *fakeCache) Set(_ context.Context, barberID, serviceID uint, date string, slots []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(barberID, serviceID, date)] = slots
}

func (c *fakeCache) Invalidate(_ context.Context, barberID uint, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := fmt.Sprintf("%d:%s:", barberID, date)
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
	c.invalidated = append(c.invalidated, prefix)
}

func (c *fakeCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type env struct {
	repo   *repository.MemoryRepository
	clock  timezone.FixedClock
	audit  *recordingAudit
	notify *recordingNotify
	cache  *fakeCache
	fx     Effects
}

func newEnv(t *testing.T) *env {
	t.Helper()

	repo := repository.NewMemoryRepository()
	repo.AddBarber(models.User{ID: barberID, Name: "Joe", Email: "joe@shop.test", Role: models.RoleBarber, Active: true})
	repo.AddBarber(models.User{ID: barber2ID, Name: "Ann", Email: "ann@shop.test", Role: models.RoleBarber, Active: true})
	repo.AddClient(models.Client{ID: clientID, Name: "Carl", Email: "carl@mail.test"})
	repo.AddSupply(models.Supply{ID: supplyID, Name: "Blade", Quantity: 3})
	repo.AddService(models.Service{
		ID:       haircutID,
		Name:     "Haircut",
		Duration: "01:00:00",
		Price:    decimal.RequireFromString("30.00"),
		Active:   true,
		Supplies: []models.ServiceSupply{{ServiceID: haircutID, SupplyID: supplyID, Quantity: 2}},
	})
	repo.AddService(models.Service{
		ID:       shaveID,
		Name:     "Shave",
		Duration: "00:45:00",
		Price:    decimal.RequireFromString("15.50"),
		Active:   true,
	})
	repo.AddDevice(barberID, "ExponentPushToken[joe]")

	e := &env{
		repo:   repo,
		clock:  timezone.FixedClock{T: testNow},
		audit:  &recordingAudit{},
		notify: &recordingNotify{},
		cache:  newFakeCache(),
	}
	e.fx = Effects{Audit: e.audit, Notify: e.notify, Cache: e.cache}
	return e
}

func (e *env) create() *CreateAppointment {
	return NewCreateAppointment(e.repo, e.clock, e.fx)
}

// book creates a confirmed appointment for a registered client or fails the test.
func (e *env) book(t *testing.T, barber, service uint, start string) *models.Appointment {
	t.Helper()
	ap, err := e.create().Execute(context.Background(), CreateAppointmentInput{
		BarberID:  barber,
		ServiceID: service,
		Client:    domain.RegisteredClient{ClientID: clientID},
		Date:      testDay,
		StartTime: start,
	})
	if err != nil {
		t.Fatalf("book %s: %v", start, err)
	}
	return ap
}

func walkIn(name string) domain.WalkInClient {
	return domain.WalkInClient{Name: name, Phone: "5551234567"}
}
