package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/webisdom/roamgenie-admin/internal/services"
	"github.com/webisdom/roamgenie-admin/pkg/response"
	"gorm.io/gorm"
)

type SystemConfigHandler struct {
	configService *services.SystemConfigService
	eventService  *services.EventService
}

func NewSystemConfigHandler(db *gorm.DB) *SystemConfigHandler {
	return &SystemConfigHandler{
		configService: services.NewSystemConfigService(db),
		eventService:  services.NewEventService(db),
	}
}

// GetRetention returns the configured event retention window.
// GET /api/system/config/retention
func (h *SystemConfigHandler) GetRetention(c *gin.Context) {
	response.Success(c, gin.H{"retention_days": h.eventService.GetRetentionDays()})
}

type updateRetentionRequest struct {
	RetentionDays *int `json:"retention_days" binding:"required"`
}

// UpdateRetention stores a new retention window. Zero or negative
// disables cleanup entirely.
// PUT /api/system/config/retention
func (h *SystemConfigHandler) UpdateRetention(c *gin.Context) {
	var req updateRetentionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if *req.RetentionDays > 3650 {
		response.BadRequest(c, "retention_days must be at most 3650")
		return
	}

	if err := h.eventService.SetRetentionDays(*req.RetentionDays); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"retention_days": *req.RetentionDays})
}

// GetLDAPConfig returns the directory settings with the bind password
// replaced by a set/unset flag.
// GET /api/system/config/ldap
func (h *SystemConfigHandler) GetLDAPConfig(c *gin.Context) {
	response.Success(c, h.configService.GetLDAPConfig())
}

// UpdateLDAPConfig updates directory settings at runtime. Only the
// fields present in the body are touched.
// PUT /api/system/config/ldap
func (h *SystemConfigHandler) UpdateLDAPConfig(c *gin.Context) {
	var req services.UpdateLDAPConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.configService.UpdateLDAPConfig(&req); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, h.configService.GetLDAPConfig())
}
