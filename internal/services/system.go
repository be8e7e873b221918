package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/webisdom/roamgenie-admin/internal/config"
	"github.com/webisdom/roamgenie-admin/pkg/logger"
	"gorm.io/gorm"
)

// SystemService answers operational questions about the deployment
// itself rather than the product data.
type SystemService struct {
	db  *gorm.DB
	cfg *config.DatabaseConfig
}

func NewSystemService(db *gorm.DB, cfg *config.DatabaseConfig) *SystemService {
	return &SystemService{db: db, cfg: cfg}
}

type DatabaseInfo struct {
	Driver       string           `json:"driver"`
	Tables       []string         `json:"tables"`
	TableCounts  map[string]int64 `json:"table_counts"`
	DatabaseSize string           `json:"database_size"`
}

// DatabaseInfo lists every table with its row count plus the total
// database size. Count failures degrade to 0 instead of failing the
// whole call.
func (s *SystemService) DatabaseInfo() (*DatabaseInfo, error) {
	tables, err := s.db.Migrator().GetTables()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var count int64
		if err := s.db.Table(table).Count(&count).Error; err != nil {
			logger.Warn().Err(err).Str("table", table).Msg("failed to count table rows")
			counts[table] = 0
			continue
		}
		counts[table] = count
	}

	return &DatabaseInfo{
		Driver:       s.cfg.Driver,
		Tables:       tables,
		TableCounts:  counts,
		DatabaseSize: s.databaseSize(),
	}, nil
}

func (s *SystemService) databaseSize() string {
	switch s.cfg.Driver {
	case "postgres":
		var size string
		err := s.db.Raw("SELECT pg_size_pretty(pg_database_size(current_database()))").Scan(&size).Error
		if err != nil {
			return "Unknown"
		}
		return size
	case "mysql":
		var bytes int64
		err := s.db.Raw(
			"SELECT COALESCE(SUM(data_length + index_length), 0) FROM information_schema.TABLES WHERE table_schema = DATABASE()",
		).Scan(&bytes).Error
		if err != nil {
			return "Unknown"
		}
		return formatBytes(bytes)
	case "sqlite":
		info, err := os.Stat(sqliteFilePath(s.cfg.DSN))
		if err != nil {
			return "Unknown"
		}
		return formatBytes(info.Size())
	}
	return "Unknown"
}

// sqliteFilePath strips the URI scheme and query parameters a sqlite DSN
// may carry, leaving the bare file path.
func sqliteFilePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}
	return path
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
