package services

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/webisdom/roamgenie-admin/internal/models"
	"github.com/webisdom/roamgenie-admin/pkg/logger"
	"gorm.io/gorm"
)

// Well-known event types. The tracking endpoint also accepts free-form
// types from the public site (page_view variants and the like).
const (
	EventStartup         = "system_startup"
	EventShutdown        = "system_shutdown"
	EventAdminAction     = "admin_action"
	EventUserLogin       = "user_login"
	EventSearchLogged    = "flight_search_logged"
	EventContactUpserted = "contact_submitted"
	EventExportCompleted = "export_completed"
	EventExportFailed    = "export_failed"
	EventCleanup         = "events_cleanup"
	EventMetricsSnapshot = "metrics_snapshot"
)

var globalDB *gorm.DB

// InitEventLogger wires the package-level event writer to the database.
// Must be called once during bootstrap before any middleware runs.
func InitEventLogger(db *gorm.DB) {
	globalDB = db
}

// LogEvent appends a row to the events table. data is serialized to JSON
// unless it is already a string; userIdentifier is a username for admin
// events and a session id for product events. Failures are logged and
// swallowed so event writing never takes a request down.
func LogEvent(eventType string, data interface{}, userIdentifier, ip, userAgent string) {
	if globalDB == nil {
		return
	}

	event := &models.Event{
		EventType:      eventType,
		EventData:      encodeEventData(data),
		UserIdentifier: userIdentifier,
		IPAddress:      ip,
		UserAgent:      userAgent,
		CreatedAt:      time.Now(),
	}
	if err := globalDB.Create(event).Error; err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to write event")
	}
}

func encodeEventData(data interface{}) string {
	switch v := data.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

type EventListRequest struct {
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	EventType      string `form:"event_type"`
	UserIdentifier string `form:"user_identifier"`
	StartDate      string `form:"start_date"`
	EndDate        string `form:"end_date"`
	Search         string `form:"search"`
}

type EventListResponse struct {
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Items    []models.Event `json:"items"`
}

func (s *EventService) List(req *EventListRequest) (*EventListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var events []models.Event
	var total int64

	query := s.db.Model(&models.Event{})

	if req.EventType != "" {
		query = query.Where("event_type = ?", req.EventType)
	}
	if req.UserIdentifier != "" {
		query = query.Where("user_identifier = ?", req.UserIdentifier)
	}
	if req.StartDate != "" {
		query = query.Where("created_at >= ?", req.StartDate)
	}
	if req.EndDate != "" {
		query = query.Where("created_at <= ?", req.EndDate+" 23:59:59")
	}
	if req.Search != "" {
		query = query.Where("event_data LIKE ?", "%"+req.Search+"%")
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, err
	}

	return &EventListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    events,
	}, nil
}

// GetTypes returns the distinct event types present, for filter dropdowns.
func (s *EventService) GetTypes() ([]string, error) {
	var types []string
	err := s.db.Model(&models.Event{}).
		Distinct("event_type").
		Order("event_type").
		Pluck("event_type", &types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (s *EventService) Create(event *models.Event) error {
	return s.db.Create(event).Error
}

// CountSince counts events recorded after the cutoff, optionally filtered
// by type. An empty eventType counts everything.
func (s *EventService) CountSince(eventType string, since time.Time) (int64, error) {
	var count int64
	query := s.db.Model(&models.Event{}).Where("created_at >= ?", since)
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}
	err := query.Count(&count).Error
	return count, err
}

// CleanupOld deletes events older than the given number of days and
// returns how many rows went away. Retention <= 0 means keep forever.
func (s *EventService) CleanupOld(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.Event{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// GetRetentionDays reads the retention window from system config.
func (s *EventService) GetRetentionDays() int {
	var cfg models.SystemConfig
	if err := s.db.Where(map[string]interface{}{"key": "event_retention_days"}).First(&cfg).Error; err != nil {
		return 90
	}

	days, err := strconv.Atoi(cfg.Value)
	if err != nil {
		return 90
	}
	return days
}

// SetRetentionDays stores the retention window in system config,
// creating the row on first write.
func (s *EventService) SetRetentionDays(days int) error {
	var cfg models.SystemConfig
	err := s.db.Where(map[string]interface{}{"key": "event_retention_days"}).First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		cfg = models.SystemConfig{
			Key:   "event_retention_days",
			Value: strconv.Itoa(days),
			Type:  "int",
			Group: "retention",
			Label: "Event retention (days)",
		}
		return s.db.Create(&cfg).Error
	}
	if err != nil {
		return err
	}
	return s.db.Model(&cfg).Update("value", strconv.Itoa(days)).Error
}

// StartEventCleanupScheduler starts a goroutine that prunes old events once
// at startup and then every 24 hours.
func StartEventCleanupScheduler(db *gorm.DB) {
	go func() {
		service := NewEventService(db)

		runEventCleanup(service)

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			runEventCleanup(service)
		}
	}()
}

func runEventCleanup(service *EventService) {
	retentionDays := service.GetRetentionDays()
	if retentionDays <= 0 {
		logger.Info().Msg("event cleanup disabled (retention_days <= 0)")
		return
	}

	deleted, err := service.CleanupOld(retentionDays)
	if err != nil {
		logger.Error().Err(err).Msg("failed to cleanup old events")
		return
	}

	if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Int("retention_days", retentionDays).Msg("cleaned up old events")
		LogEvent(EventCleanup, map[string]interface{}{"deleted": deleted, "retention_days": retentionDays}, "system", "", "")
	}
}
