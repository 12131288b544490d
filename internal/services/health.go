package services

import (
	"fmt"

	"github.com/yjkim/hue/internal/config"
	"github.com/yjkim/hue/internal/utils"
	"github.com/yjkim/hue/pkg/logger"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	NameNode     string            `json:"namenode"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck reports database and NameNode reachability for the service.
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		logger.Sugar.Warnw("health check failed", "component", "database", "error", err)
	} else {
		if err := sqlDB.Ping(); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
			logger.Sugar.Warnw("health check failed", "component", "database_ping", "error", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	// Check NameNode (WebHDFS) connectivity
	if err := utils.PingNameNode(cfg.WebHDFSURL); err != nil {
		result.Status = "unhealthy"
		result.NameNode = "unreachable"
		result.Details["namenode_error"] = err.Error()
		if result.ErrorMessage == "" {
			result.ErrorMessage = fmt.Sprintf("NameNode ping failed: %v", err)
		} else {
			result.ErrorMessage += fmt.Sprintf("; NameNode ping failed: %v", err)
		}
		logger.Sugar.Warnw("health check failed", "component", "namenode", "error", err)
	} else {
		result.NameNode = "ok"
		result.Details["webhdfs_url"] = cfg.WebHDFSURL
	}

	return result
}
