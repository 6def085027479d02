package models

import "time"

// Device holds an Expo push token registered by a user.
type Device struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index;uniqueIndex:idx_device_token_user" json:"user_id"`
	Token  string `gorm:"not null;uniqueIndex:idx_device_token_user" json:"token"`

	CreatedAt time.Time `json:"created_at"`
}
