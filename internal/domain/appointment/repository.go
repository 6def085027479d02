package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
)

// ErrRecordNotFound is returned by repositories for any missing row.
var ErrRecordNotFound = errors.New("record not found")

type Repository interface {
	// -------- Collaborators --------
	GetBarber(ctx context.Context, id uint) (*models.User, error)

	// GetService loads the service with its bill of materials.
	GetService(ctx context.Context, id uint) (*models.Service, error)

	GetClient(ctx context.Context, id uint) (*models.Client, error)

	ListDeviceTokens(ctx context.Context, userID uint) ([]string, error)

	DecrementSupply(ctx context.Context, supplyID uint, quantity int) error

	// -------- Transaction --------

	// Transaction runs fn against a repository bound to one database
	// transaction. Returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// LockBarberDay serializes writers on one barber's day until the
	// surrounding transaction ends.
	LockBarberDay(ctx context.Context, barberID uint, date time.Time) error

	// -------- Appointment --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error

	GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error)

	// SaveAppointment persists scheduling fields of an open appointment.
	SaveAppointment(ctx context.Context, ap *models.Appointment) error

	// TransitionStatus writes ap's status fields only if the stored status is
	// still one of from. It reports whether a row changed.
	TransitionStatus(ctx context.Context, ap *models.Appointment, from []Status) (bool, error)

	DeleteAppointment(ctx context.Context, id uuid.UUID) (bool, error)

	// ListActiveForBarberDay returns time-blocking appointments for the day,
	// ordered by start time.
	ListActiveForBarberDay(ctx context.Context, barberID uint, date time.Time) ([]models.Appointment, error)

	// ListAppointmentsForDate returns every appointment on date with barber,
	// client and service loaded, ordered by barber then start time.
	ListAppointmentsForDate(ctx context.Context, date time.Time) ([]models.Appointment, error)

	// -------- Sweeper --------

	// MoveElapsed transitions appointments in status from whose end is
	// strictly before (today, clock) and returns how many changed.
	MoveElapsed(ctx context.Context, from Status, to Status, today time.Time, clock string, now time.Time) (int64, error)
}
