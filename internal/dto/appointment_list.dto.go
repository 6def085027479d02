package dto

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
)

// ScheduleEntryDTO is one row of the daily schedule.
type ScheduleEntryDTO struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Status     string `json:"status"`
	Address    string `json:"address"`
	BarberID   uint   `json:"barber_id"`
	BarberName string `json:"barber_name"`
	ClientName string `json:"client_name"`
	WalkIn     bool   `json:"walk_in"`

	ServiceName  string          `json:"service_name"`
	ServicePrice decimal.Decimal `json:"service_price"`
}

type DailyScheduleDTO struct {
	Date         string             `json:"date"`
	Appointments []ScheduleEntryDTO `json:"appointments"`
}

type AvailabilityDTO struct {
	BarberID  uint     `json:"barber_id"`
	ServiceID uint     `json:"service_id"`
	Date      string   `json:"date"`
	Slots     []string `json:"slots"`
}

// AppointmentDTO is the wire form of one appointment.
type AppointmentDTO struct {
	ID              string `json:"id"`
	BarberID        uint   `json:"barber_id"`
	ServiceID       uint   `json:"service_id"`
	ClientID        *uint  `json:"client_id,omitempty"`
	WalkInName      string `json:"walk_in_name,omitempty"`
	WalkInPhone     string `json:"walk_in_phone,omitempty"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	ActualDuration  string `json:"actual_duration"`
	RoundedDuration int    `json:"rounded_duration"`
	Address         string `json:"address"`
	Status          string `json:"status"`
	SaleID          *uint  `json:"sale_id,omitempty"`
	CancelReason    string `json:"cancel_reason,omitempty"`
}

func NewAppointmentDTO(ap *models.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:              ap.ID.String(),
		BarberID:        ap.BarberID,
		ServiceID:       ap.ServiceID,
		ClientID:        ap.ClientID,
		WalkInName:      ap.TempClientName,
		WalkInPhone:     ap.TempClientPhone,
		Date:            ap.DateString(),
		StartTime:       ap.StartTime,
		EndTime:         ap.EndTime,
		ActualDuration:  ap.ActualDuration,
		RoundedDuration: ap.RoundedDuration,
		Address:         ap.Address,
		Status:          ap.Status,
		SaleID:          ap.SaleID,
		CancelReason:    ap.CancelReason,
	}
}
