package models

import (
	"fmt"

	"github.com/webisdom/roamgenie-admin/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&RefreshToken{},
		&FlightSearch{},
		&Contact{},
		&Event{},
		&SystemMetric{},
		&SystemConfig{},
		&SchedulerLock{},
		&ExportJob{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates default data if not exists
func SeedDefaultData() error {
	defaultConfigs := []SystemConfig{
		{Key: "ldap_enabled", Value: "false", Type: "bool", Group: "ldap", Label: "Enable LDAP Authentication"},
		{Key: "ldap_host", Value: "", Type: "string", Group: "ldap", Label: "LDAP Server Host"},
		{Key: "ldap_port", Value: "389", Type: "int", Group: "ldap", Label: "LDAP Server Port"},
		{Key: "ldap_base_dn", Value: "", Type: "string", Group: "ldap", Label: "LDAP Base DN"},
		{Key: "ldap_bind_dn", Value: "", Type: "string", Group: "ldap", Label: "LDAP Bind DN"},
		{Key: "ldap_bind_password", Value: "", Type: "string", Group: "ldap", Label: "LDAP Bind Password"},
		{Key: "ldap_user_filter", Value: "(uid=%s)", Type: "string", Group: "ldap", Label: "LDAP User Filter"},
		{Key: "ldap_use_ssl", Value: "false", Type: "bool", Group: "ldap", Label: "Use SSL/TLS"},
		{Key: "event_retention_days", Value: "90", Type: "int", Group: "retention", Label: "Event Retention Days"},
		{Key: "export_retention_days", Value: "7", Type: "int", Group: "retention", Label: "Export File Retention Days"},
		{Key: "dashboard_trends_days", Value: "30", Type: "int", Group: "dashboard", Label: "Default Search Trends Window (Days)"},
		{Key: "dashboard_analytics_days", Value: "90", Type: "int", Group: "dashboard", Label: "Default Flight Analytics Window (Days)"},
		{Key: "dashboard_top_limit", Value: "10", Type: "int", Group: "dashboard", Label: "Top Cities Chart Size"},
		{Key: "metrics_snapshot_time", Value: "00:05", Type: "string", Group: "metrics", Label: "Daily Metrics Snapshot Time"},
	}

	for _, cfg := range defaultConfigs {
		var count int64
		// Map conditions so the reserved "key" column is quoted per dialect.
		DB.Model(&SystemConfig{}).Where(map[string]interface{}{"key": cfg.Key}).Count(&count)
		if count == 0 {
			if err := DB.Create(&cfg).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
