package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/webisdom/roamgenie-admin/internal/services"
	"github.com/webisdom/roamgenie-admin/pkg/response"
	"gorm.io/gorm"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{
		eventService: services.NewEventService(db),
	}
}

// List returns tracked events filtered by type, user and date range.
// GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	var req services.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.eventService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// GetTypes returns the distinct event types for filter dropdowns.
// GET /api/events/types
func (h *EventHandler) GetTypes(c *gin.Context) {
	types, err := h.eventService.GetTypes()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"types": types})
}

// Cleanup deletes events past the retention window right now instead of
// waiting for the nightly pass.
// POST /api/events/cleanup
func (h *EventHandler) Cleanup(c *gin.Context) {
	retention := h.eventService.GetRetentionDays()
	deleted, err := h.eventService.CleanupOld(retention)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"deleted": deleted, "retention_days": retention})
}
