package models

import "time"

// Contact is a CRM lead captured from the contact form. Email is the
// natural key: re-submitting with a known email updates the existing
// row and bumps last_interaction instead of failing.
type Contact struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FirstName       string    `gorm:"size:100;not null" json:"first_name"`
	LastName        string    `gorm:"size:100;not null" json:"last_name"`
	Email           string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone           string    `gorm:"size:50" json:"phone"`
	Source          string    `gorm:"size:50;default:web_form" json:"source"`
	Status          string    `gorm:"size:50;default:active" json:"status"`
	Notes           string    `gorm:"type:text" json:"notes"`
	LastInteraction time.Time `gorm:"autoCreateTime" json:"last_interaction"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Contact) TableName() string { return "contacts" }
