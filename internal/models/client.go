package models

import "time"

// Client is a registered customer. Walk-ins are stored on the appointment
// row and never get a Client.
type Client struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;index" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	// EmailOptOut stops appointment emails without removing the address.
	EmailOptOut bool `gorm:"default:false" json:"email_opt_out"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactEmail is the address appointment notices go to, or "" when the
// client opted out.
func (c *Client) ContactEmail() string {
	if c.EmailOptOut {
		return ""
	}
	return c.Email
}
