package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/webisdom/roamgenie-admin/internal/config"
	"github.com/webisdom/roamgenie-admin/internal/services"
	"github.com/webisdom/roamgenie-admin/pkg/response"
	"gorm.io/gorm"
)

type SystemHandler struct {
	systemService *services.SystemService
}

func NewSystemHandler(db *gorm.DB, cfg *config.DatabaseConfig) *SystemHandler {
	return &SystemHandler{
		systemService: services.NewSystemService(db, cfg),
	}
}

// GetDatabaseInfo returns driver, table list, per-table row counts and
// the on-disk database size.
// GET /api/system/database-info
func (h *SystemHandler) GetDatabaseInfo(c *gin.Context) {
	info, err := h.systemService.DatabaseInfo()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, info)
}
