package models

import "time"

// Export job statuses
const (
	ExportStatusPending    = "pending"
	ExportStatusProcessing = "processing"
	ExportStatusCompleted  = "completed"
	ExportStatusFailed     = "failed"
)

// Export types
const (
	ExportTypeSearches = "searches"
	ExportTypeContacts = "contacts"
	ExportTypeSummary  = "summary"
)

// ExportJob tracks a CSV export through the queue: created as pending,
// picked up by a worker, and finished as completed (with a file on disk)
// or failed (with an error message).
type ExportJob struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ExportType   string     `gorm:"size:50;not null;index" json:"export_type"`
	Status       string     `gorm:"size:50;default:pending;index" json:"status"`
	FileName     string     `gorm:"size:255" json:"file_name,omitempty"`
	FilePath     string     `gorm:"size:500" json:"-"`
	RowCount     int        `json:"row_count"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
	RequestedBy  uint       `gorm:"index" json:"requested_by"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (ExportJob) TableName() string { return "export_jobs" }
