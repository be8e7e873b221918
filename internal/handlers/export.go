package handlers

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/webisdom/roamgenie-admin/internal/middleware"
	"github.com/webisdom/roamgenie-admin/internal/models"
	"github.com/webisdom/roamgenie-admin/internal/services"
	"github.com/webisdom/roamgenie-admin/pkg/response"
	"gorm.io/gorm"
)

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

type createExportRequest struct {
	ExportType string `json:"export_type" binding:"required"`
}

// Create queues a new export job. The CSV is produced by the task
// queue worker, or inline when Redis is not configured.
// POST /api/exports
func (h *ExportHandler) Create(c *gin.Context) {
	var req createExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	requestedBy := middleware.GetUserID(c)
	job, err := h.exportService.CreateJob(req.ExportType, requestedBy)
	if err != nil {
		if errors.Is(err, services.ErrUnknownExportType) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Created(c, job)
}

// List returns export jobs, newest first.
// GET /api/exports
func (h *ExportHandler) List(c *gin.Context) {
	var req services.ExportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.exportService.ListJobs(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// Get returns a single export job by ID.
// GET /api/exports/:id
func (h *ExportHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid export job ID")
		return
	}

	job, err := h.exportService.GetJob(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "export job not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, job)
}

// Download streams the generated CSV file of a completed job.
// GET /api/exports/:id/download
func (h *ExportHandler) Download(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid export job ID")
		return
	}

	job, err := h.exportService.GetJob(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "export job not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	if job.Status != models.ExportStatusCompleted {
		response.NotFound(c, fmt.Sprintf("export job is %s, no file available", job.Status))
		return
	}
	if _, err := os.Stat(job.FilePath); err != nil {
		response.NotFound(c, "export file no longer exists on disk")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", job.FileName))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.File(job.FilePath)
}
