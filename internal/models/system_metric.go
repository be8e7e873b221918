package models

import "time"

// SystemMetric holds point-in-time measurements recorded by the daily
// snapshot job (row counts, averages) or pushed by operators.
type SystemMetric struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	MetricName     string    `gorm:"size:100;not null;index" json:"metric_name"`
	MetricValue    float64   `gorm:"type:decimal(10,2);not null" json:"metric_value"`
	MetricType     string    `gorm:"size:50;default:counter" json:"metric_type"` // counter, gauge
	AdditionalData string    `gorm:"type:text" json:"additional_data"`
	RecordedAt     time.Time `gorm:"autoCreateTime;index" json:"recorded_at"`
}

func (SystemMetric) TableName() string { return "system_metrics" }
