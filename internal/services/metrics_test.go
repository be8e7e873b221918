package services

import (
	"testing"
	"time"

	"github.com/webisdom/roamgenie-admin/internal/models"
)

func TestRunDailySnapshot(t *testing.T) {
	db := newTestDB(t, &models.SystemMetric{}, &models.SchedulerLock{},
		&models.FlightSearch{}, &models.Contact{})

	seedSearchRow(t, db, models.FlightSearch{
		Origin: "Delhi", Destination: "Tokyo",
		DepartureDate: "2026-09-01", ReturnDate: "2026-09-05",
		DurationDays: intPtr(4),
	})
	seedSearchRow(t, db, models.FlightSearch{
		Origin: "Mumbai", Destination: "Bali",
		DepartureDate: "2026-09-10", ReturnDate: "2026-09-16",
		DurationDays: intPtr(6),
	})
	if err := db.Create(&models.Contact{
		FirstName: "Asha", LastName: "Patel", Email: "asha@example.com",
	}).Error; err != nil {
		t.Fatalf("seed contact: %v", err)
	}

	// A leftover lock from a previous day should get swept.
	yesterday := time.Now().AddDate(0, 0, -1)
	if err := db.Create(&models.SchedulerLock{
		LockName:  "metrics_snapshot",
		LockKey:   yesterday.Format("2006-01-02"),
		LockedAt:  yesterday,
		ExpiresAt: time.Now().Add(-time.Hour),
	}).Error; err != nil {
		t.Fatalf("seed expired lock: %v", err)
	}

	service := NewMetricsService(db)
	now := time.Now()
	service.RunDailySnapshot(now)

	var gaugeCount int64
	db.Model(&models.SystemMetric{}).Where("metric_type = ?", "gauge").Count(&gaugeCount)
	if gaugeCount != 5 {
		t.Errorf("gauge rows = %v, expected 5", gaugeCount)
	}

	var totalSearches models.SystemMetric
	if err := db.Where("metric_name = ?", "total_searches").First(&totalSearches).Error; err != nil {
		t.Fatalf("total_searches gauge missing: %v", err)
	}
	if totalSearches.MetricValue != 2 {
		t.Errorf("total_searches = %v, expected 2", totalSearches.MetricValue)
	}

	var avgDuration models.SystemMetric
	if err := db.Where("metric_name = ?", "avg_trip_duration").First(&avgDuration).Error; err != nil {
		t.Fatalf("avg_trip_duration gauge missing: %v", err)
	}
	if avgDuration.MetricValue != 5 {
		t.Errorf("avg_trip_duration = %v, expected 5", avgDuration.MetricValue)
	}

	// Second run on the same day loses the lock race and records nothing.
	service.RunDailySnapshot(now)
	db.Model(&models.SystemMetric{}).Where("metric_type = ?", "gauge").Count(&gaugeCount)
	if gaugeCount != 5 {
		t.Errorf("gauge rows after rerun = %v, expected 5", gaugeCount)
	}

	// Expired lock is gone, today's remains.
	var lockCount int64
	db.Model(&models.SchedulerLock{}).Count(&lockCount)
	if lockCount != 1 {
		t.Errorf("lock rows = %v, expected 1", lockCount)
	}
	var lock models.SchedulerLock
	db.First(&lock)
	if lock.LockKey != now.Format("2006-01-02") {
		t.Errorf("remaining lock key = %v, expected %v", lock.LockKey, now.Format("2006-01-02"))
	}
}

func TestMetricRecordAndList(t *testing.T) {
	db := newTestDB(t, &models.SystemMetric{})
	service := NewMetricsService(db)

	if err := service.Record("api_latency_ms", 42.5, "", ""); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := service.Record("api_latency_ms", 38.0, "", ""); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := service.Record("total_searches", 120, "gauge", `{"snapshot_date":"2026-08-20"}`); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	var first models.SystemMetric
	db.Where("metric_name = ?", "api_latency_ms").First(&first)
	if first.MetricType != "counter" {
		t.Errorf("default metric_type = %v, expected counter", first.MetricType)
	}

	resp, err := service.List(&MetricListRequest{MetricName: "api_latency_ms"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("filtered by name total = %v, expected 2", resp.Total)
	}

	resp, err = service.List(&MetricListRequest{MetricType: "gauge"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("filtered by type total = %v, expected 1", resp.Total)
	}
	if len(resp.Items) != 1 || resp.Items[0].MetricName != "total_searches" {
		t.Errorf("gauge item = %+v, expected total_searches", resp.Items)
	}

	resp, err = service.List(&MetricListRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("unfiltered total = %v, expected 3", resp.Total)
	}
	if resp.Page != 1 || resp.PageSize != 100 {
		t.Errorf("defaults = page %v size %v, expected 1/100", resp.Page, resp.PageSize)
	}
}
