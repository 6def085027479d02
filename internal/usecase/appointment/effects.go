package appointment

import (
	"context"
	"errors"
	"log"

	"github.com/BruksfildServices01/barbershop-appointments/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/notify"
)

// ======================================================
// Collaborators
// ======================================================

type AuditDispatcher interface {
	Dispatch(ev audit.Event)
}

type NotifyDispatcher interface {
	Dispatch(msg notify.Message)
}

// SlotCache stores computed availability per barber, day and service.
type SlotCache interface {
	Get(ctx context.Context, barberID, serviceID uint, date string) ([]string, bool)
	Set(ctx context.Context, barberID, serviceID uint, date string, slots []string)
	Invalidate(ctx context.Context, barberID uint, date string)
}

type NopCache struct{}

func (NopCache) Get(context.Context, uint, uint, string) ([]string, bool) { return nil, false }
func (NopCache) Set(context.Context, uint, uint, string, []string) {}
func (NopCache) Invalidate(context.Context, uint, string) {}

// Effects are the after-commit side effects shared by every write.
// Any field may be nil.
type Effects struct {
	Audit  AuditDispatcher
	Notify NotifyDispatcher
	Cache  SlotCache
}

func (fx Effects) cache() SlotCache {
	if fx.Cache == nil {
		return NopCache{}
	}
	return fx.Cache
}

func (fx Effects) audit(actorID *uint, action string, ap *models.Appointment, meta any) {
	if fx.Audit == nil {
		return
	}
	fx.Audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   action,
		Entity:   "appointment",
		EntityID: ap.ID.String(),
		Metadata: meta,
	})
}

func (fx Effects) invalidate(ctx context.Context, ap *models.Appointment) {
	fx.cache().Invalidate(ctx, ap.BarberID, ap.DateString())
}

// notifyParticipants sends one message to the barber and one to the
// registered client, if any. Lookup failures only cost the recipient.
func (fx Effects) notifyParticipants(
	ctx context.Context,
	repo domain.Repository,
	ap *models.Appointment,
	event notify.EventType,
	title string,
	body string,
) {
	if fx.Notify == nil {
		return
	}

	data := map[string]string{
		"appointment_id": ap.ID.String(),
		"date":           ap.DateString(),
		"start_time":     ap.StartTime,
		"status":         ap.Status,
	}

	if barber, err := repo.GetBarber(ctx, ap.BarberID); err == nil {
		tokens, err := repo.ListDeviceTokens(ctx, barber.ID)
		if err != nil {
			log.Printf("notify: device tokens for barber %d: %v", barber.ID, err)
		}
		fx.Notify.Dispatch(notify.Message{
			Type:      event,
			Recipient: notify.Recipient{Name: barber.Name, Email: barber.Email, PushTokens: tokens},
			Title:     title,
			Body:      body,
			Data:      data,
		})
	} else {
		log.Printf("notify: barber %d: %v", ap.BarberID, err)
	}

	if ap.ClientID == nil {
		return
	}
	client, err := repo.GetClient(ctx, *ap.ClientID)
	if err != nil {
		log.Printf("notify: client %d: %v", *ap.ClientID, err)
		return
	}
	fx.Notify.Dispatch(notify.Message{
		Type:      event,
		Recipient: notify.Recipient{Name: client.Name, Email: client.ContactEmail()},
		Title:     title,
		Body:      body,
		Data:      data,
	})
}

// ======================================================
// Lookups
// ======================================================

// lookup maps a missing row to the given not-found code.
func lookup(err error, code string) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}
