package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/webisdom/roamgenie-admin/internal/models"
	"github.com/webisdom/roamgenie-admin/pkg/logger"
	"gorm.io/gorm"
)

// MetricsService records point-in-time measurements into system_metrics
// and runs the daily snapshot that freezes the headline KPIs, so the
// dashboard can chart their history even after events age out.
type MetricsService struct {
	db             *gorm.DB
	searches       *SearchService
	contacts       *ContactService
	cronScheduler  *cron.Cron
	currentEntryID cron.EntryID
}

func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{
		db:       db,
		searches: NewSearchService(db),
		contacts: NewContactService(db),
	}
}

// Record appends one measurement. metricType defaults to "counter".
func (s *MetricsService) Record(name string, value float64, metricType, additionalData string) error {
	if metricType == "" {
		metricType = "counter"
	}
	metric := &models.SystemMetric{
		MetricName:     name,
		MetricValue:    value,
		MetricType:     metricType,
		AdditionalData: additionalData,
		RecordedAt:     time.Now(),
	}
	return s.db.Create(metric).Error
}

type MetricListRequest struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	MetricName string `form:"metric_name"`
	MetricType string `form:"metric_type"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
}

type MetricListResponse struct {
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []models.SystemMetric `json:"items"`
}

func (s *MetricsService) List(req *MetricListRequest) (*MetricListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 100
	}

	var metrics []models.SystemMetric
	var total int64

	query := s.db.Model(&models.SystemMetric{})

	if req.MetricName != "" {
		query = query.Where("metric_name = ?", req.MetricName)
	}
	if req.MetricType != "" {
		query = query.Where("metric_type = ?", req.MetricType)
	}
	if req.StartDate != "" {
		query = query.Where("recorded_at >= ?", req.StartDate)
	}
	if req.EndDate != "" {
		query = query.Where("recorded_at <= ?", req.EndDate+" 23:59:59")
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("recorded_at DESC").Find(&metrics).Error; err != nil {
		return nil, err
	}

	return &MetricListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    metrics,
	}, nil
}

// StartScheduler begins the daily snapshot cron. The clock time comes
// from the metrics_snapshot_time system config (HH:MM, default 00:05).
func (s *MetricsService) StartScheduler() {
	s.cronScheduler = cron.New()

	s.updateSchedule()

	s.cronScheduler.Start()
	logger.Info().Msg("metrics snapshot scheduler started")
}

func (s *MetricsService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

func (s *MetricsService) updateSchedule() {
	if s.currentEntryID != 0 {
		s.cronScheduler.Remove(s.currentEntryID)
	}

	snapshotTime := s.getSnapshotTime()
	parts := strings.Split(snapshotTime, ":")
	hour := "0"
	minute := "5"
	if len(parts) == 2 {
		hour = strings.TrimLeft(parts[0], "0")
		minute = strings.TrimLeft(parts[1], "0")
		if hour == "" {
			hour = "0"
		}
		if minute == "" {
			minute = "0"
		}
	}

	cronExpr := fmt.Sprintf("%s %s * * *", minute, hour)

	entryID, err := s.cronScheduler.AddFunc(cronExpr, func() {
		s.RunDailySnapshot(time.Now())
	})
	if err != nil {
		logger.Error().Err(err).Str("cron", cronExpr).Msg("failed to schedule metrics snapshot")
		return
	}

	s.currentEntryID = entryID
	logger.Info().Str("time", snapshotTime).Str("cron", cronExpr).Msg("metrics snapshot scheduled")
}

func (s *MetricsService) getSnapshotTime() string {
	var config models.SystemConfig
	if err := s.db.Where(map[string]interface{}{"key": "metrics_snapshot_time"}).First(&config).Error; err != nil {
		return "00:05"
	}
	return config.Value
}

// RunDailySnapshot freezes the headline KPIs as gauge rows, at most once
// per day across replicas: the scheduler_locks unique (lock_name,
// lock_key) pair makes the second replica's insert fail, and that
// replica skips the run.
func (s *MetricsService) RunDailySnapshot(now time.Time) {
	day := now.Format("2006-01-02")
	if !s.acquireLock("metrics_snapshot", day, now) {
		logger.Debug().Str("day", day).Msg("metrics snapshot already taken by another replica")
		return
	}

	gauges := []struct {
		name  string
		value func() (float64, error)
	}{
		{"total_searches", func() (float64, error) { v, err := s.searches.TotalCount(); return float64(v), err }},
		{"total_contacts", func() (float64, error) { v, err := s.contacts.TotalCount(); return float64(v), err }},
		{"searches_24h", func() (float64, error) { v, err := s.searches.CountSinceHours(24); return float64(v), err }},
		{"contacts_24h", func() (float64, error) { v, err := s.contacts.CountSinceHours(24); return float64(v), err }},
		{"avg_trip_duration", s.searches.AverageTripDuration},
	}

	recorded := 0
	for _, gauge := range gauges {
		value, err := gauge.value()
		if err != nil {
			logger.Error().Err(err).Str("metric", gauge.name).Msg("snapshot gauge failed")
			continue
		}
		if err := s.Record(gauge.name, value, "gauge", fmt.Sprintf(`{"snapshot_date":%q}`, day)); err != nil {
			logger.Error().Err(err).Str("metric", gauge.name).Msg("failed to record snapshot gauge")
			continue
		}
		recorded++
	}

	logger.Info().Str("day", day).Int("recorded", recorded).Msg("daily metrics snapshot complete")
	LogEvent(EventMetricsSnapshot, map[string]interface{}{"day": day, "recorded": recorded}, "system", "", "")

	s.cleanupExpiredLocks(now)
}

// acquireLock inserts the day's lock row; a duplicate-key failure means
// another replica got there first.
func (s *MetricsService) acquireLock(name, key string, now time.Time) bool {
	hostname, _ := os.Hostname()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)

	lock := models.SchedulerLock{
		LockName:  name,
		LockKey:   key,
		LockedBy:  hostname,
		LockedAt:  now,
		ExpiresAt: endOfDay,
	}
	return s.db.Create(&lock).Error == nil
}

// cleanupExpiredLocks drops lock rows from previous days so the table
// never grows past a row per job per day.
func (s *MetricsService) cleanupExpiredLocks(now time.Time) {
	s.db.Where("expires_at < ?", now).Delete(&models.SchedulerLock{})
}
