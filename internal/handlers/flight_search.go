package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/webisdom/roamgenie-admin/internal/services"
	"github.com/webisdom/roamgenie-admin/pkg/response"
	"gorm.io/gorm"
)

type FlightSearchHandler struct {
	searchService *services.SearchService
}

func NewFlightSearchHandler(db *gorm.DB) *FlightSearchHandler {
	return &FlightSearchHandler{
		searchService: services.NewSearchService(db),
	}
}

// List returns flight searches filtered by origin, destination, status
// and date range.
// GET /api/searches
func (h *FlightSearchHandler) List(c *gin.Context) {
	var req services.SearchListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.searchService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}
