package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const DefaultAddress = "at the shop"

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Registered client XOR walk-in name (+ optional phone).
	ClientID        *uint   `gorm:"index" json:"client_id,omitempty"`
	Client          *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`
	TempClientName  string  `gorm:"size:50" json:"temp_client_name,omitempty"`
	TempClientPhone string  `gorm:"size:10" json:"temp_client_phone,omitempty"`

	BarberID uint `gorm:"not null;index:idx_appointments_barber_date" json:"barber_id"`
	Barber   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"barber"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	Date      datatypes.Date `gorm:"type:date;not null;index:idx_appointments_barber_date" json:"date"`
	StartTime string         `gorm:"size:8;not null" json:"start_time"`
	EndTime   string         `gorm:"size:8;not null" json:"end_time"`

	ActualDuration  string `gorm:"size:8;not null" json:"actual_duration"`
	RoundedDuration int    `gorm:"not null" json:"rounded_duration"`

	Address string `gorm:"size:255;default:'at the shop'" json:"address"`
	Status  string `gorm:"size:20;default:'confirmed';index" json:"status"`

	SaleID       *uint      `json:"sale_id,omitempty"`
	CancelReason string     `gorm:"size:255" json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ExpiredAt    *time.Time `json:"expired_at,omitempty"`
	ConvertedAt  *time.Time `json:"converted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateString returns the canonical "YYYY-MM-DD" form of the appointment date.
func (a *Appointment) DateString() string {
	return time.Time(a.Date).Format("2006-01-02")
}

// ClientName is the registered client's name or the walk-in name.
func (a *Appointment) ClientName() string {
	if a.Client != nil {
		return a.Client.Name
	}
	return a.TempClientName
}
