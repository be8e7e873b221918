package main

import (
	"time"

	"github.com/webisdom/roamgenie-admin/internal/config"
	"github.com/webisdom/roamgenie-admin/internal/handlers"
	"github.com/webisdom/roamgenie-admin/internal/models"
	"github.com/webisdom/roamgenie-admin/internal/services"
	"github.com/webisdom/roamgenie-admin/internal/utils"
	"github.com/webisdom/roamgenie-admin/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg            *config.Config
	metricsService *services.MetricsService
	exportService  *services.ExportService
	taskQueue      services.TaskQueue
	worker         *services.Worker
	authHandler    *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Seed dashboard accounts into an empty users table
	authService := services.NewAuthService(models.GetDB(), &cfg.JWT)
	if err := authService.SeedDefaultUsers(&cfg.Admin); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default users")
	}

	// Wire the package-level event writer and record the boot
	services.InitEventLogger(models.GetDB())
	services.LogEvent(services.EventStartup, map[string]interface{}{
		"driver": cfg.Database.Driver,
	}, "system", "", "")

	// Start event retention cleanup
	services.StartEventCleanupScheduler(models.GetDB())

	// Start the daily metrics snapshot scheduler
	metricsService := services.NewMetricsService(models.GetDB())
	metricsService.StartScheduler()

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	exportService := services.NewExportService(models.GetDB(), &cfg.Export, taskQueue)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(exportService.Process)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(exportService.Process)
			worker.Start()
		}
	}

	// Jobs stuck in processing from a previous run will never finish
	if recovered, err := exportService.RecoverStuckJobs(30 * time.Minute); err != nil {
		logger.Warn().Err(err).Msg("Failed to recover stuck export jobs")
	} else if recovered > 0 {
		logger.Infof("Marked %d interrupted export jobs as failed", recovered)
	}

	// Start export file retention cleanup
	exportService.StartExportCleanupScheduler()

	return &appServices{
		cfg:            cfg,
		metricsService: metricsService,
		exportService:  exportService,
		taskQueue:      taskQueue,
		worker:         worker,
		authHandler:    handlers.NewAuthHandler(models.GetDB(), cfg),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.metricsService.StopScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}

	services.LogEvent(services.EventShutdown, nil, "system", "", "")
}
