package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/webisdom/roamgenie-admin/internal/config"
	"github.com/webisdom/roamgenie-admin/internal/models"
	"github.com/webisdom/roamgenie-admin/pkg/logger"
	"gorm.io/gorm"
)

var ErrUnknownExportType = errors.New("unknown export type")

// ExportService turns the live tables into downloadable CSV files. Jobs
// are tracked in export_jobs and processed off the request path, via
// Redis when available or an in-process goroutine otherwise.
type ExportService struct {
	db        *gorm.DB
	cfg       *config.ExportConfig
	analytics *AnalyticsService
	queue     TaskQueue
}

func NewExportService(db *gorm.DB, cfg *config.ExportConfig, queue TaskQueue) *ExportService {
	return &ExportService{
		db:        db,
		cfg:       cfg,
		analytics: NewAnalyticsService(db, ""),
		queue:     queue,
	}
}

// filePrefix maps export types to the download names the dashboard has
// always produced.
func filePrefix(exportType string) string {
	switch exportType {
	case models.ExportTypeSearches:
		return "flight_searches"
	case models.ExportTypeContacts:
		return "contacts"
	case models.ExportTypeSummary:
		return "analytics_summary"
	}
	return "export"
}

// CreateJob validates the type, records a pending job and hands it to
// the queue. The returned job already carries its id for polling.
func (s *ExportService) CreateJob(exportType string, requestedBy uint) (*models.ExportJob, error) {
	switch exportType {
	case models.ExportTypeSearches, models.ExportTypeContacts, models.ExportTypeSummary:
	default:
		return nil, ErrUnknownExportType
	}

	job := &models.ExportJob{
		ExportType:  exportType,
		Status:      models.ExportStatusPending,
		RequestedBy: requestedBy,
	}
	if err := s.db.Create(job).Error; err != nil {
		return nil, err
	}

	task := &ExportTask{JobID: job.ID, ExportType: exportType, RequestedBy: requestedBy}
	if err := s.queue.Enqueue(task); err != nil {
		s.markFailed(job, fmt.Sprintf("enqueue failed: %v", err))
		return nil, err
	}

	return job, nil
}

// Process runs one export job to completion. It is the processor for
// both the asynq worker and the sync queue; returning an error lets
// asynq retry up to its MaxRetry.
func (s *ExportService) Process(ctx context.Context, task *ExportTask) error {
	var job models.ExportJob
	if err := s.db.WithContext(ctx).First(&job, task.JobID).Error; err != nil {
		return err
	}

	// A retried task may find the job already done.
	if job.Status == models.ExportStatusCompleted {
		return nil
	}

	if err := s.db.Model(&job).Update("status", models.ExportStatusProcessing).Error; err != nil {
		return err
	}

	data, rowCount, err := s.buildCSV(ctx, job.ExportType)
	if err != nil {
		s.markFailed(&job, err.Error())
		return err
	}

	if err := os.MkdirAll(s.cfg.Dir, 0755); err != nil {
		s.markFailed(&job, err.Error())
		return err
	}

	fileName := fmt.Sprintf("%s_%s.csv", filePrefix(job.ExportType), time.Now().Format("20060102_150405"))
	filePath := filepath.Join(s.cfg.Dir, fileName)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		s.markFailed(&job, err.Error())
		return err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.ExportStatusCompleted,
		"file_name":    fileName,
		"file_path":    filePath,
		"row_count":    rowCount,
		"completed_at": &now,
	}
	if err := s.db.Model(&job).Updates(updates).Error; err != nil {
		return err
	}

	logger.Info().Uint("job_id", job.ID).Str("type", job.ExportType).Int("rows", rowCount).Msg("export completed")
	LogEvent(EventExportCompleted, map[string]interface{}{
		"job_id": job.ID, "export_type": job.ExportType, "rows": rowCount, "file": fileName,
	}, "system", "", "")

	return nil
}

func (s *ExportService) markFailed(job *models.ExportJob, message string) {
	s.db.Model(job).Updates(map[string]interface{}{
		"status":        models.ExportStatusFailed,
		"error_message": message,
	})
	logger.Error().Uint("job_id", job.ID).Str("type", job.ExportType).Str("error", message).Msg("export failed")
	LogEvent(EventExportFailed, map[string]interface{}{
		"job_id": job.ID, "export_type": job.ExportType, "error": message,
	}, "system", "", "")
}

func (s *ExportService) buildCSV(ctx context.Context, exportType string) ([]byte, int, error) {
	switch exportType {
	case models.ExportTypeSearches:
		return s.buildSearchesCSV(ctx)
	case models.ExportTypeContacts:
		return s.buildContactsCSV(ctx)
	case models.ExportTypeSummary:
		csvText, err := s.analytics.SummaryCSV()
		if err != nil {
			return nil, 0, err
		}
		rows := strings.Count(csvText, "\n") - 1
		return []byte(csvText), rows, nil
	}
	return nil, 0, ErrUnknownExportType
}

// buildSearchesCSV writes every search, newest first, under the column
// aliases the dashboard download has always used. NULL durations and
// prices stay empty cells.
func (s *ExportService) buildSearchesCSV(ctx context.Context) ([]byte, int, error) {
	var searches []models.FlightSearch
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&searches).Error; err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{
		"Departure City", "Destination", "Departure Date", "Return Date",
		"Trip Duration (Days)", "Budget Preference", "Flight Class",
		"Estimated Price", "Search Date",
	})

	for _, search := range searches {
		duration := ""
		if search.DurationDays != nil {
			duration = strconv.Itoa(*search.DurationDays)
		}
		price := ""
		if search.EstimatedPrice != nil {
			price = strconv.FormatFloat(*search.EstimatedPrice, 'f', 2, 64)
		}
		w.Write([]string{
			search.Origin, search.Destination, search.DepartureDate, search.ReturnDate,
			duration, search.BudgetPreference, search.FlightClass,
			price, search.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(searches), nil
}

func (s *ExportService) buildContactsCSV(ctx context.Context) ([]byte, int, error) {
	var contacts []models.Contact
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{
		"First Name", "Last Name", "Email", "Phone", "Source", "Status",
		"Notes", "Last Interaction", "Created At",
	})

	for _, contact := range contacts {
		w.Write([]string{
			contact.FirstName, contact.LastName, contact.Email, contact.Phone,
			contact.Source, contact.Status, contact.Notes,
			contact.LastInteraction.Format("2006-01-02 15:04:05"),
			contact.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(contacts), nil
}

type ExportListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status"`
}

type ExportListResponse struct {
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Items    []models.ExportJob `json:"items"`
}

func (s *ExportService) ListJobs(req *ExportListRequest) (*ExportListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var jobs []models.ExportJob
	var total int64

	query := s.db.Model(&models.ExportJob{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}

	return &ExportListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    jobs,
	}, nil
}

func (s *ExportService) GetJob(id uint) (*models.ExportJob, error) {
	var job models.ExportJob
	if err := s.db.First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// RecoverStuckJobs fails jobs a crashed worker left in processing. Run
// once at startup, before the queue starts taking new work.
func (s *ExportService) RecoverStuckJobs(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	result := s.db.Model(&models.ExportJob{}).
		Where("status = ? AND updated_at < ?", models.ExportStatusProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":        models.ExportStatusFailed,
			"error_message": "interrupted by server restart",
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		logger.Warn().Int64("jobs", result.RowsAffected).Msg("recovered stuck export jobs")
	}
	return result.RowsAffected, nil
}

// CleanupOldExports removes export files and job rows older than the
// configured retention. Retention <= 0 keeps everything.
func (s *ExportService) CleanupOldExports() (int64, error) {
	if s.cfg.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)

	var jobs []models.ExportJob
	if err := s.db.Where("created_at < ?", cutoff).Find(&jobs).Error; err != nil {
		return 0, err
	}

	var removed int64
	for _, job := range jobs {
		if job.FilePath != "" {
			if err := os.Remove(job.FilePath); err != nil && !os.IsNotExist(err) {
				logger.Warn().Err(err).Str("file", job.FilePath).Msg("failed to remove export file")
				continue
			}
		}
		if err := s.db.Delete(&models.ExportJob{}, job.ID).Error; err != nil {
			logger.Warn().Err(err).Uint("job_id", job.ID).Msg("failed to delete export job")
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info().Int64("removed", removed).Int("retention_days", s.cfg.RetentionDays).Msg("cleaned up old exports")
	}
	return removed, nil
}

// StartExportCleanupScheduler prunes expired exports once at startup and
// then every 24 hours.
func (s *ExportService) StartExportCleanupScheduler() {
	go func() {
		if _, err := s.CleanupOldExports(); err != nil {
			logger.Error().Err(err).Msg("export cleanup failed")
		}

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if _, err := s.CleanupOldExports(); err != nil {
				logger.Error().Err(err).Msg("export cleanup failed")
			}
		}
	}()
}
