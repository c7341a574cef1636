package models

import "time"

// Notification channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Notification is one message sent to a customer, kept so the customer can
// read it back from their inbox.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"size:36;index"`
	Channel   string    `json:"channel" gorm:"size:8"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message" gorm:"type:text"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
