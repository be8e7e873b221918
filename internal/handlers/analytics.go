package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/webisdom/roamgenie-admin/internal/config"
	"github.com/webisdom/roamgenie-admin/internal/services"
	"github.com/webisdom/roamgenie-admin/pkg/response"
	"gorm.io/gorm"
)

// AnalyticsHandler serves the chart and insight endpoints behind the
// dashboard's analytics tab.
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	searchService    *services.SearchService
	insightsService  *services.InsightsService
	configService    *services.SystemConfigService
}

func NewAnalyticsHandler(db *gorm.DB, cfg *config.Config) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: services.NewAnalyticsService(db, cfg.Analytics.HolidayCountry),
		searchService:    services.NewSearchService(db),
		insightsService:  services.NewInsightsService(db, &cfg.OpenAI),
		configService:    services.NewSystemConfigService(db),
	}
}

// GetTrends returns the zero-filled daily search series with weekend and
// holiday annotations.
// GET /api/analytics/trends?days=30&market=US
func (h *AnalyticsHandler) GetTrends(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}
	market := c.Query("market")

	points, err := h.analyticsService.SearchTrends(days, market)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"days": days, "points": points})
}

func (h *AnalyticsHandler) topLimit(c *gin.Context) int {
	fallback := h.configService.GetInt("dashboard_top_limit", 10)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(fallback)))
	if err != nil || limit < 1 || limit > 100 {
		return fallback
	}
	return limit
}

// GetTopDestinations returns the most searched destinations.
// GET /api/analytics/top-destinations?limit=10
func (h *AnalyticsHandler) GetTopDestinations(c *gin.Context) {
	items, err := h.searchService.TopDestinations(h.topLimit(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, items)
}

// GetTopDepartures returns the most common departure cities.
// GET /api/analytics/top-departures?limit=10
func (h *AnalyticsHandler) GetTopDepartures(c *gin.Context) {
	items, err := h.searchService.TopDepartures(h.topLimit(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, items)
}

// GetBudgetDistribution returns search counts per budget preference.
// GET /api/analytics/budget-distribution
func (h *AnalyticsHandler) GetBudgetDistribution(c *gin.Context) {
	items, err := h.searchService.BudgetDistribution()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, items)
}

// GetClassDistribution returns search counts per flight class.
// GET /api/analytics/class-distribution
func (h *AnalyticsHandler) GetClassDistribution(c *gin.Context) {
	items, err := h.searchService.ClassDistribution()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, items)
}

// GetFlightAnalytics returns the windowed per-search rows with derived
// date fields, for the detailed analytics table.
// GET /api/analytics/flights?days=90&page=1&page_size=100
func (h *AnalyticsHandler) GetFlightAnalytics(c *gin.Context) {
	var req services.FlightAnalyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.searchService.Analytics(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// DownloadSummary streams the Metric,Value summary sheet as a CSV file.
// GET /api/analytics/summary.csv
func (h *AnalyticsHandler) DownloadSummary(c *gin.Context) {
	csvText, err := h.analyticsService.SummaryCSV()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	fileName := fmt.Sprintf("analytics_summary_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(200, "text/csv; charset=utf-8", []byte(csvText))
}

// GetInsights returns a model-written briefing over the current stats.
// GET /api/analytics/insights
func (h *AnalyticsHandler) GetInsights(c *gin.Context) {
	briefing, err := h.insightsService.GenerateBriefing(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrInsightsDisabled) {
			response.ServiceUnavailable(c, err.Error())
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"briefing": briefing, "generated_at": time.Now()})
}

// GetMarkets lists the holiday calendars trends can be annotated with.
// GET /api/analytics/markets
func (h *AnalyticsHandler) GetMarkets(c *gin.Context) {
	response.Success(c, h.analyticsService.Holidays().SupportedCountries())
}
