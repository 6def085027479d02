package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string          `gorm:"size:100;not null" json:"name"`
	Duration string          `gorm:"size:8;not null" json:"duration"`
	Price    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Active   bool            `gorm:"default:true" json:"active"`

	Supplies []ServiceSupply `gorm:"constraint:OnDelete:CASCADE;" json:"supplies,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceSupply is one bill-of-materials line consumed when a service is performed.
type ServiceSupply struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"index;not null" json:"service_id"`
	SupplyID  uint `gorm:"not null" json:"supply_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`
}

type Supply struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Quantity int    `gorm:"not null;default:0" json:"quantity"`

	UpdatedAt time.Time `json:"updated_at"`
}
