package models

import "time"

// Event is the product activity stream: searches and contact submissions
// reported by the public site, lifecycle markers like system_startup, and
// audit records for admin actions. event_data holds a JSON blob whose shape
// depends on event_type; user_identifier is a username for admin events and
// a session id for product events. Old rows are pruned on a retention
// schedule.
type Event struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	EventType      string    `gorm:"size:100;not null;index" json:"event_type"`
	EventData      string    `gorm:"type:text" json:"event_data"`
	UserIdentifier string    `gorm:"size:150;index" json:"user_identifier"`
	IPAddress      string    `gorm:"size:50" json:"ip_address"`
	UserAgent      string    `gorm:"size:500" json:"user_agent"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (Event) TableName() string { return "events" }
