package handlers

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/webisdom/roamgenie-admin/internal/models"
	"github.com/webisdom/roamgenie-admin/internal/services"
	"github.com/webisdom/roamgenie-admin/pkg/response"
)

var startTime = time.Now()

// Metrics returns Prometheus-compatible text format metrics.
func Metrics(c *gin.Context) {
	var b strings.Builder

	// -- Runtime metrics --
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeGauge(&b, "roamgenie_uptime_seconds", "Time since server start in seconds", float64(time.Since(startTime).Seconds()))
	writeGauge(&b, "roamgenie_goroutines", "Number of active goroutines", float64(runtime.NumGoroutine()))
	writeGauge(&b, "roamgenie_memory_alloc_bytes", "Current heap allocation in bytes", float64(m.Alloc))
	writeGauge(&b, "roamgenie_memory_sys_bytes", "Total memory obtained from OS in bytes", float64(m.Sys))
	writeGauge(&b, "roamgenie_gc_runs_total", "Total number of GC runs", float64(m.NumGC))

	// -- Database metrics --
	db := models.GetDB()
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			stats := sqlDB.Stats()
			writeGauge(&b, "roamgenie_db_open_connections", "Number of open DB connections", float64(stats.OpenConnections))
			writeGauge(&b, "roamgenie_db_in_use_connections", "Number of in-use DB connections", float64(stats.InUse))
			writeGauge(&b, "roamgenie_db_idle_connections", "Number of idle DB connections", float64(stats.Idle))
		}
	}

	// -- SSE metrics --
	sseHub := services.GetSSEHub()
	if sseHub != nil {
		writeGauge(&b, "roamgenie_sse_active_clients", "Number of active SSE connections", float64(sseHub.ClientCount()))
	}

	// -- Queue metrics --
	taskQueue := services.GetTaskQueue()
	queueAsync := 0.0
	if taskQueue != nil && taskQueue.IsAsync() {
		queueAsync = 1.0
	}
	writeGauge(&b, "roamgenie_queue_async_enabled", "Whether async queue (Redis) is enabled (1=yes, 0=no)", queueAsync)

	// -- Domain metrics --
	if db != nil {
		var totalSearches, totalContacts, totalEvents int64
		db.Model(&models.FlightSearch{}).Count(&totalSearches)
		db.Model(&models.Contact{}).Count(&totalContacts)
		db.Model(&models.Event{}).Count(&totalEvents)

		writeGauge(&b, "roamgenie_searches_total", "Total number of logged flight searches", float64(totalSearches))
		writeGauge(&b, "roamgenie_contacts_total", "Total number of contacts", float64(totalContacts))
		writeGauge(&b, "roamgenie_events_total", "Total number of tracked events", float64(totalEvents))

		var pendingExports, processingExports int64
		db.Model(&models.ExportJob{}).Where("status = ?", models.ExportStatusPending).Count(&pendingExports)
		db.Model(&models.ExportJob{}).Where("status = ?", models.ExportStatusProcessing).Count(&processingExports)

		writeGauge(&b, "roamgenie_export_jobs_pending", "Number of pending export jobs", float64(pendingExports))
		writeGauge(&b, "roamgenie_export_jobs_processing", "Number of currently processing export jobs", float64(processingExports))

		var activeUsers int64
		db.Model(&models.User{}).Where("is_active = ?", true).Count(&activeUsers)
		writeGauge(&b, "roamgenie_users_active", "Number of active dashboard users", float64(activeUsers))

		// Activity over the last 24h
		since24h := time.Now().Add(-24 * time.Hour)
		var searches24h, contacts24h int64
		db.Model(&models.FlightSearch{}).Where("created_at >= ?", since24h).Count(&searches24h)
		db.Model(&models.Contact{}).Where("created_at >= ?", since24h).Count(&contacts24h)

		writeGauge(&b, "roamgenie_searches_24h", "Flight searches in the last 24 hours", float64(searches24h))
		writeGauge(&b, "roamgenie_contacts_24h", "New contacts in the last 24 hours", float64(contacts24h))
	}

	c.Data(200, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s gauge\n", name)
	fmt.Fprintf(b, "%s %g\n\n", name, value)
}

// SystemMetricsHandler exposes the recorded system_metrics samples.
type SystemMetricsHandler struct {
	metricsService *services.MetricsService
}

func NewSystemMetricsHandler(metricsService *services.MetricsService) *SystemMetricsHandler {
	return &SystemMetricsHandler{metricsService: metricsService}
}

// List returns recorded metric samples, newest first.
// GET /api/metrics/system
func (h *SystemMetricsHandler) List(c *gin.Context) {
	var req services.MetricListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.metricsService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}
