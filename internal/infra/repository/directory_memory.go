package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barbershop-appointments/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
)

func (r *MemoryRepository) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.barbers {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *MemoryRepository) GetUser(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.barbers[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		for id := range r.barbers {
			user.ID = max(user.ID, id)
		}
		user.ID++
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.barbers[user.ID] = *user
	return nil
}

func (r *MemoryRepository) ListServices(context.Context) ([]models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Service{}
	for _, s := range r.services {
		if s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) RegisterDevice(_ context.Context, userID uint, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.devices[userID] {
		if t == token {
			return nil
		}
	}
	r.devices[userID] = append(r.devices[userID], token)
	return nil
}

// Log makes the memory store an audit.Sink.
func (r *MemoryRepository) Log(ev audit.Event) error {
	var meta datatypes.JSON
	if ev.Metadata != nil {
		b, err := json.Marshal(ev.Metadata)
		if err != nil {
			return err
		}
		meta = datatypes.JSON(b)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.auditLogs = append(r.auditLogs, models.AuditLog{
		ID:        uint(len(r.auditLogs) + 1),
		UserID:    ev.UserID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  meta,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *MemoryRepository) ListAuditLogs(_ context.Context, f audit.Filter) ([]models.AuditLog, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.AuditLog
	for i := len(r.auditLogs) - 1; i >= 0; i-- {
		l := r.auditLogs[i]
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.Entity != "" && l.Entity != f.Entity {
			continue
		}
		if f.From != nil && l.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !l.CreatedAt.Before(*f.To) {
			continue
		}
		matched = append(matched, l)
	}

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []models.AuditLog{}, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

var _ audit.Sink = (*MemoryRepository)(nil)
