package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

// MemoryRepository keeps everything in process memory. Transactions are
// serialized by txMu, which also makes LockBarberDay a no-op. Writes made
// outside a transaction never wait on it.
// Used with STORE_DRIVER=memory and by tests.
type MemoryRepository struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	barbers      map[uint]models.User
	services     map[uint]models.Service
	clients      map[uint]models.Client
	supplies     map[uint]models.Supply
	devices      map[uint][]string
	appointments map[uuid.UUID]models.Appointment
	auditLogs    []models.AuditLog

	// revisions bump on every write so a rollback can tell whether a row
	// was changed again after the transaction touched it.
	apRev  map[uuid.UUID]uint64
	supRev map[uint]uint64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		barbers:      map[uint]models.User{},
		services:     map[uint]models.Service{},
		clients:      map[uint]models.Client{},
		supplies:     map[uint]models.Supply{},
		devices:      map[uint][]string{},
		appointments: map[uuid.UUID]models.Appointment{},
		apRev:        map[uuid.UUID]uint64{},
		supRev:       map[uint]uint64{},
	}
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (r *MemoryRepository) AddBarber(u models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.barbers[u.ID] = u
}

func (r *MemoryRepository) AddService(s models.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[s.ID] = s
}

func (r *MemoryRepository) AddClient(c models.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID] = c
}

func (r *MemoryRepository) AddSupply(s models.Supply) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.supplies[s.ID] = s
}

func (r *MemoryRepository) AddDevice(userID uint, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[userID] = append(r.devices[userID], token)
}

// Supply returns the current stock row, for inspection.
func (r *MemoryRepository) Supply(id uint) (models.Supply, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.supplies[id]
	return s, ok
}

// Appointments returns a snapshot of every stored appointment.
func (r *MemoryRepository) Appointments() []models.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Appointment, 0, len(r.appointments))
	for _, ap := range r.appointments {
		out = append(out, ap)
	}
	return out
}

// --------------------------------------------------
// Collaborators
// --------------------------------------------------

func (r *MemoryRepository) GetBarber(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.barbers[id]
	if !ok || !u.Active {
		return nil, domain.ErrRecordNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) GetService(_ context.Context, id uint) (*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.services[id]
	if !ok || !s.Active {
		return nil, domain.ErrRecordNotFound
	}
	s.Supplies = append([]models.ServiceSupply(nil), s.Supplies...)
	return &s, nil
}

func (r *MemoryRepository) GetClient(_ context.Context, id uint) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) ListDeviceTokens(_ context.Context, userID uint) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.devices[userID]...), nil
}

func (r *MemoryRepository) DecrementSupply(_ context.Context, supplyID uint, quantity int) error {
	return r.decrementSupply(nil, supplyID, quantity)
}

func (r *MemoryRepository) decrementSupply(u *undoLog, supplyID uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.supplies[supplyID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	r.touchSupply(u, supplyID)
	s.Quantity = max(s.Quantity-quantity, 0)
	s.UpdatedAt = time.Now()
	r.supplies[supplyID] = s
	return nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *MemoryRepository) LockBarberDay(context.Context, uint, time.Time) error {
	return nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *MemoryRepository) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	return r.createAppointment(nil, ap)
}

func (r *MemoryRepository) createAppointment(u *undoLog, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touchAppointment(u, ap.ID)

	now := time.Now()
	ap.CreatedAt = now
	ap.UpdatedAt = now

	stored := *ap
	stored.Client = nil
	stored.Barber = models.User{}
	stored.Service = models.Service{}
	r.appointments[ap.ID] = stored
	return nil
}

// hydrate fills associations the way gorm preloads do. Caller holds mu.
func (r *MemoryRepository) hydrate(ap models.Appointment) models.Appointment {
	if ap.ClientID != nil {
		if c, ok := r.clients[*ap.ClientID]; ok {
			ap.Client = &c
		}
	}
	ap.Barber = r.barbers[ap.BarberID]
	ap.Service = r.services[ap.ServiceID]
	return ap
}

func (r *MemoryRepository) GetAppointment(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ap, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	ap = r.hydrate(ap)
	return &ap, nil
}

func isOpen(status string) bool {
	for _, s := range domain.OpenStatuses {
		if string(s) == status {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) SaveAppointment(_ context.Context, ap *models.Appointment) error {
	return r.saveAppointment(nil, ap)
}

func (r *MemoryRepository) saveAppointment(u *undoLog, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.appointments[ap.ID]
	if !ok || !isOpen(cur.Status) {
		return domain.ErrRecordNotFound
	}
	r.touchAppointment(u, ap.ID)

	cur.ClientID = ap.ClientID
	cur.TempClientName = ap.TempClientName
	cur.TempClientPhone = ap.TempClientPhone
	cur.BarberID = ap.BarberID
	cur.ServiceID = ap.ServiceID
	cur.Date = ap.Date
	cur.StartTime = ap.StartTime
	cur.EndTime = ap.EndTime
	cur.ActualDuration = ap.ActualDuration
	cur.RoundedDuration = ap.RoundedDuration
	cur.Address = ap.Address
	cur.UpdatedAt = time.Now()

	r.appointments[ap.ID] = cur
	return nil
}

func (r *MemoryRepository) TransitionStatus(_ context.Context, ap *models.Appointment, from []domain.Status) (bool, error) {
	return r.transitionStatus(nil, ap, from)
}

func (r *MemoryRepository) transitionStatus(u *undoLog, ap *models.Appointment, from []domain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.appointments[ap.ID]
	if !ok {
		return false, nil
	}

	allowed := false
	for _, s := range from {
		if string(s) == cur.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}

	r.touchAppointment(u, ap.ID)
	cur.Status = ap.Status
	cur.CancelReason = ap.CancelReason
	cur.CancelledAt = ap.CancelledAt
	cur.CompletedAt = ap.CompletedAt
	cur.ExpiredAt = ap.ExpiredAt
	cur.ConvertedAt = ap.ConvertedAt
	cur.SaleID = ap.SaleID
	cur.UpdatedAt = time.Now()

	r.appointments[ap.ID] = cur
	return true, nil
}

func (r *MemoryRepository) DeleteAppointment(_ context.Context, id uuid.UUID) (bool, error) {
	return r.deleteAppointment(nil, id)
}

func (r *MemoryRepository) deleteAppointment(u *undoLog, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[id]; !ok {
		return false, nil
	}
	r.touchAppointment(u, id)
	delete(r.appointments, id)
	return true, nil
}

func (r *MemoryRepository) ListActiveForBarberDay(_ context.Context, barberID uint, date time.Time) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := date.Format(timezone.DateLayout)
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.BarberID != barberID || ap.DateString() != day {
			continue
		}
		if !domain.Status(ap.Status).BlocksTime() {
			continue
		}
		out = append(out, ap)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *MemoryRepository) ListAppointmentsForDate(_ context.Context, date time.Time) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := date.Format(timezone.DateLayout)
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.DateString() == day {
			out = append(out, r.hydrate(ap))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].BarberID != out[j].BarberID {
			return out[i].BarberID < out[j].BarberID
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

// --------------------------------------------------
// Sweeper
// --------------------------------------------------

func (r *MemoryRepository) MoveElapsed(
	_ context.Context,
	from domain.Status,
	to domain.Status,
	today time.Time,
	clock string,
	now time.Time,
) (int64, error) {
	return r.moveElapsed(nil, from, to, today, clock, now)
}

func (r *MemoryRepository) moveElapsed(
	u *undoLog,
	from domain.Status,
	to domain.Status,
	today time.Time,
	clock string,
	now time.Time,
) (int64, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	day := today.Format(timezone.DateLayout)
	var n int64
	for id, ap := range r.appointments {
		if ap.Status != string(from) {
			continue
		}
		d := ap.DateString()
		if !(d < day || (d == day && ap.EndTime < clock)) {
			continue
		}

		r.touchAppointment(u, id)
		ap.Status = string(to)
		ap.UpdatedAt = now
		switch to {
		case domain.StatusCompleted:
			ap.CompletedAt = &now
		case domain.StatusExpired:
			ap.ExpiredAt = &now
		}
		r.appointments[id] = ap
		n++
	}
	return n, nil
}

// Compile-time check
var _ domain.Repository = (*MemoryRepository)(nil)
