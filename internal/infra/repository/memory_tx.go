package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
)

type appointmentUndo struct {
	prior   models.Appointment
	existed bool
	rev     uint64
}

type supplyUndo struct {
	prior models.Supply
	rev   uint64
}

// undoLog holds the first value seen for every row a transaction wrote and
// the revision the transaction left it at.
type undoLog struct {
	appointments map[uuid.UUID]appointmentUndo
	supplies     map[uint]supplyUndo
}

func newUndoLog() *undoLog {
	return &undoLog{
		appointments: map[uuid.UUID]appointmentUndo{},
		supplies:     map[uint]supplyUndo{},
	}
}

// touchAppointment bumps the row revision and, inside a transaction,
// records the pre-transaction value. Caller holds mu.
func (r *MemoryRepository) touchAppointment(u *undoLog, id uuid.UUID) {
	r.apRev[id]++
	if u == nil {
		return
	}
	e, seen := u.appointments[id]
	if !seen {
		e.prior, e.existed = r.appointments[id]
	}
	e.rev = r.apRev[id]
	u.appointments[id] = e
}

// touchSupply is touchAppointment for stock rows. Caller holds mu.
func (r *MemoryRepository) touchSupply(u *undoLog, id uint) {
	r.supRev[id]++
	if u == nil {
		return
	}
	e, seen := u.supplies[id]
	if !seen {
		e.prior = r.supplies[id]
	}
	e.rev = r.supRev[id]
	u.supplies[id] = e
}

// rollback restores only the rows the transaction wrote. A row written
// again by someone else after the transaction keeps that later value.
func (r *MemoryRepository) rollback(u *undoLog) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range u.appointments {
		if r.apRev[id] != e.rev {
			continue
		}
		if e.existed {
			r.appointments[id] = e.prior
		} else {
			delete(r.appointments, id)
		}
		r.apRev[id]++
	}

	for id, e := range u.supplies {
		if r.supRev[id] != e.rev {
			continue
		}
		r.supplies[id] = e.prior
		r.supRev[id]++
	}
}

// Transaction gives fn exclusive access among transactions. Writes are
// applied directly and undone row by row when fn fails.
func (r *MemoryRepository) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	tx := &memoryTx{MemoryRepository: r, undo: newUndoLog()}
	if err := fn(tx); err != nil {
		r.rollback(tx.undo)
		return err
	}
	return nil
}

// memoryTx is the repository handed to a transaction body. Reads go
// straight to the store; writes are recorded in the undo log.
type memoryTx struct {
	*MemoryRepository
	undo *undoLog
}

// Transaction joins the surrounding transaction.
func (t *memoryTx) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(t)
}

func (t *memoryTx) DecrementSupply(_ context.Context, supplyID uint, quantity int) error {
	return t.decrementSupply(t.undo, supplyID, quantity)
}

func (t *memoryTx) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	return t.createAppointment(t.undo, ap)
}

func (t *memoryTx) SaveAppointment(_ context.Context, ap *models.Appointment) error {
	return t.saveAppointment(t.undo, ap)
}

func (t *memoryTx) TransitionStatus(_ context.Context, ap *models.Appointment, from []domain.Status) (bool, error) {
	return t.transitionStatus(t.undo, ap, from)
}

func (t *memoryTx) DeleteAppointment(_ context.Context, id uuid.UUID) (bool, error) {
	return t.deleteAppointment(t.undo, id)
}

func (t *memoryTx) MoveElapsed(
	_ context.Context,
	from domain.Status,
	to domain.Status,
	today time.Time,
	clock string,
	now time.Time,
) (int64, error) {
	return t.moveElapsed(t.undo, from, to, today, clock, now)
}

var _ domain.Repository = (*memoryTx)(nil)
