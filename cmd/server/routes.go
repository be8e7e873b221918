package main

import (
	"github.com/gin-gonic/gin"
	"github.com/webisdom/roamgenie-admin/internal/handlers"
	"github.com/webisdom/roamgenie-admin/internal/middleware"
	"github.com/webisdom/roamgenie-admin/internal/models"
	"github.com/webisdom/roamgenie-admin/internal/services"
	"github.com/webisdom/roamgenie-admin/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiters: tracking takes product traffic, login takes brute force
	trackLimiter := middleware.NewRateLimiter(10, 20)
	loginLimiter := middleware.NewRateLimiter(1, 5)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	// Prometheus text metrics
	r.GET("/metrics", handlers.Metrics)

	// API routes
	api := r.Group("/api")
	{
		// Tracking routes (public, called by the RoamGenie product)
		trackHandler := handlers.NewTrackHandler(models.GetDB())
		track := api.Group("/track", trackLimiter.Middleware())
		{
			track.POST("/search", trackHandler.TrackSearch)
			track.POST("/contact", trackHandler.TrackContact)
			track.POST("/event", trackHandler.TrackEvent)
		}

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", loginLimiter.Middleware(), svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
		}

		// SSE stream (public route with internal token validation)
		sseHandler := handlers.NewSSEHandler(services.GetSSEHub())
		api.GET("/events/stream", sseHandler.StreamDashboardEvents)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Dashboard (all users)
			dashboardHandler := handlers.NewDashboardHandler(models.GetDB(), svc.cfg.Analytics.HolidayCountry)
			protected.GET("/dashboard/stats", dashboardHandler.GetStats)

			// Analytics (read for all users)
			analyticsHandler := handlers.NewAnalyticsHandler(models.GetDB(), svc.cfg)
			protected.GET("/analytics/top-destinations", analyticsHandler.GetTopDestinations)
			protected.GET("/analytics/top-departures", analyticsHandler.GetTopDepartures)
			protected.GET("/analytics/trends", analyticsHandler.GetTrends)
			protected.GET("/analytics/budget-distribution", analyticsHandler.GetBudgetDistribution)
			protected.GET("/analytics/class-distribution", analyticsHandler.GetClassDistribution)
			protected.GET("/analytics/flights", analyticsHandler.GetFlightAnalytics)
			protected.GET("/analytics/markets", analyticsHandler.GetMarkets)

			// Raw tables
			searchHandler := handlers.NewFlightSearchHandler(models.GetDB())
			protected.GET("/searches", searchHandler.List)

			contactHandler := handlers.NewContactHandler(models.GetDB())
			protected.GET("/contacts", contactHandler.List)

			eventHandler := handlers.NewEventHandler(models.GetDB())
			protected.GET("/events", eventHandler.List)
			protected.GET("/events/types", eventHandler.GetTypes)

			// Recorded system metrics
			metricsHandler := handlers.NewSystemMetricsHandler(svc.metricsService)
			protected.GET("/metrics/system", metricsHandler.List)

			// Global search
			globalSearchHandler := handlers.NewSearchHandler(models.GetDB())
			protected.GET("/search", globalSearchHandler.Search)
		}

		// Admin only routes (writes are audited into the events table)
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Users
			userHandler := handlers.NewUserHandler(models.GetDB())
			admin.GET("/users", userHandler.List)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			// CSV exports
			exportHandler := handlers.NewExportHandler(svc.exportService)
			admin.POST("/exports", exportHandler.Create)
			admin.GET("/exports", exportHandler.List)
			admin.GET("/exports/:id", exportHandler.Get)
			admin.GET("/exports/:id/download", exportHandler.Download)

			// Analytics admin surfaces
			analyticsHandler := handlers.NewAnalyticsHandler(models.GetDB(), svc.cfg)
			admin.GET("/analytics/summary.csv", analyticsHandler.DownloadSummary)
			admin.GET("/analytics/insights", analyticsHandler.GetInsights)

			// System
			systemHandler := handlers.NewSystemHandler(models.GetDB(), &svc.cfg.Database)
			admin.GET("/system/database-info", systemHandler.GetDatabaseInfo)

			systemConfigHandler := handlers.NewSystemConfigHandler(models.GetDB())
			admin.GET("/system/config/retention", systemConfigHandler.GetRetention)
			admin.PUT("/system/config/retention", systemConfigHandler.UpdateRetention)
			admin.GET("/system/config/ldap", systemConfigHandler.GetLDAPConfig)
			admin.PUT("/system/config/ldap", systemConfigHandler.UpdateLDAPConfig)

			eventHandler := handlers.NewEventHandler(models.GetDB())
			admin.POST("/events/cleanup", eventHandler.Cleanup)
		}
	}
}
