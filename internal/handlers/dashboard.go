package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/webisdom/roamgenie-admin/internal/services"
	"github.com/webisdom/roamgenie-admin/pkg/response"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	analyticsService *services.AnalyticsService
}

func NewDashboardHandler(db *gorm.DB, holidayCountry string) *DashboardHandler {
	return &DashboardHandler{
		analyticsService: services.NewAnalyticsService(db, holidayCountry),
	}
}

// GetStats returns the KPI block for the dashboard header.
// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.analyticsService.SummaryStats()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, stats)
}
