package models

import "time"

// FlightSearch is one search submitted by a visitor on the public
// RoamGenie site. Rows are written by the tracking endpoint and the
// dashboard only ever reads and aggregates them. Travel dates arrive
// from the product's date pickers as YYYY-MM-DD strings and are stored
// verbatim; duration_days is derived from them at ingest time.
type FlightSearch struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Origin           string    `gorm:"size:120;not null;index" json:"origin"`
	Destination      string    `gorm:"size:120;not null;index" json:"destination"`
	DepartureDate    string    `gorm:"size:10;not null" json:"departure_date"`
	ReturnDate       string    `gorm:"size:10;not null" json:"return_date"`
	DurationDays     *int      `json:"duration_days"`
	BudgetPreference string    `gorm:"size:50;index" json:"budget_preference"`
	FlightClass      string    `gorm:"size:50" json:"flight_class"`
	EstimatedPrice   *float64  `gorm:"type:decimal(10,2)" json:"estimated_price"`
	SearchTimestamp  time.Time `gorm:"autoCreateTime" json:"search_timestamp"`
	UserSessionID    string    `gorm:"size:100;index" json:"user_session_id"`
	SearchStatus     string    `gorm:"size:50;default:completed" json:"search_status"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

func (FlightSearch) TableName() string { return "flight_searches" }
