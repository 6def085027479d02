package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	return err
}

func dateArg(date time.Time) string {
	return date.Format(timezone.DateLayout)
}

// --------------------------------------------------
// Collaborators
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var barber models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ? AND role IN ?", id, true, []string{models.RoleBarber, models.RoleAdmin}).
		First(&barber).Error; err != nil {
		return nil, notFound(err)
	}
	return &barber, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Preload("Supplies").
		Where("id = ? AND active = ?", id, true).
		First(&service).Error; err != nil {
		return nil, notFound(err)
	}
	return &service, nil
}

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

func (r *AppointmentGormRepository) ListDeviceTokens(
	ctx context.Context,
	userID uint,
) ([]string, error) {

	var tokens []string
	if err := r.db.WithContext(ctx).
		Model(&models.Device{}).
		Where("user_id = ?", userID).
		Pluck("token", &tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// DecrementSupply clamps the stock at zero instead of failing.
func (r *AppointmentGormRepository) DecrementSupply(
	ctx context.Context,
	supplyID uint,
	quantity int,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Supply{}).
		Where("id = ?", supplyID).
		Updates(map[string]any{
			"quantity":   gorm.Expr("GREATEST(quantity - ?, 0)", quantity),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// LockBarberDay takes a transaction-scoped advisory lock on (barber, yyyymmdd).
// Row locks alone cannot stop two inserts into an empty day.
func (r *AppointmentGormRepository) LockBarberDay(
	ctx context.Context,
	barberID uint,
	date time.Time,
) error {
	day := date.Year()*10000 + int(date.Month())*100 + date.Day()
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(?, ?)", int32(barberID), int32(day)).
		Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Barber").
		Preload("Service.Supplies").
		Where("id = ?", id).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) SaveAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status IN ?", ap.ID, domain.StringsOf(domain.OpenStatuses)).
		Updates(map[string]any{
			"client_id":         ap.ClientID,
			"temp_client_name":  ap.TempClientName,
			"temp_client_phone": ap.TempClientPhone,
			"barber_id":         ap.BarberID,
			"service_id":        ap.ServiceID,
			"date":              ap.Date,
			"start_time":        ap.StartTime,
			"end_time":          ap.EndTime,
			"actual_duration":   ap.ActualDuration,
			"rounded_duration":  ap.RoundedDuration,
			"address":           ap.Address,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) TransitionStatus(
	ctx context.Context,
	ap *models.Appointment,
	from []domain.Status,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status IN ?", ap.ID, domain.StringsOf(from)).
		Updates(map[string]any{
			"status":        ap.Status,
			"cancel_reason": ap.CancelReason,
			"cancelled_at":  ap.CancelledAt,
			"completed_at":  ap.CompletedAt,
			"expired_at":    ap.ExpiredAt,
			"converted_at":  ap.ConvertedAt,
			"sale_id":       ap.SaleID,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uuid.UUID,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AppointmentGormRepository) ListActiveForBarberDay(
	ctx context.Context,
	barberID uint,
	date time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"barber_id = ? AND date = ? AND status NOT IN ?",
			barberID, dateArg(date), domain.StringsOf(domain.FreedStatuses),
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForDate(
	ctx context.Context,
	date time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Barber").
		Preload("Service").
		Where("date = ?", dateArg(date)).
		Order("barber_id ASC, start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Sweeper
// --------------------------------------------------

func (r *AppointmentGormRepository) MoveElapsed(
	ctx context.Context,
	from domain.Status,
	to domain.Status,
	today time.Time,
	clock string,
	now time.Time,
) (int64, error) {

	changes := map[string]any{
		"status":     string(to),
		"updated_at": now,
	}
	switch to {
	case domain.StatusCompleted:
		changes["completed_at"] = now
	case domain.StatusExpired:
		changes["expired_at"] = now
	}

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"status = ? AND (date < ? OR (date = ? AND end_time < ?))",
			string(from), dateArg(today), dateArg(today), clock,
		).
		Updates(changes)

	return res.RowsAffected, res.Error
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
