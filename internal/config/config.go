package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultSampleUserID is the well-known pseudo-user whose scripts are visible
// to everyone as examples. Overridable via SAMPLE_USER_ID.
const DefaultSampleUserID uint64 = 1100713

// DefaultMaxScripts caps how many scripts a single listing returns.
const DefaultMaxScripts = 200

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Script store configuration
	SampleUserID uint64
	MaxScripts   int

	// Hadoop collaborators
	WebHDFSURL string
	JobsURL    string
}

// Load loads configuration from the environment, with a .env overlay when one
// is present in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		Debug:             getEnv("DEBUG", "") != "",
		DBType:            getEnv("DB_TYPE", "mysql"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		SampleUserID:      getEnvAsUint64("SAMPLE_USER_ID", DefaultSampleUserID),
		MaxScripts:        getEnvAsInt("MAX_SCRIPTS", DefaultMaxScripts),
		WebHDFSURL:        getEnv("WEBHDFS_URL", "http://localhost:50070/webhdfs/v1"),
		JobsURL:           getEnv("JOBS_URL", "http://localhost:11000/oozie"),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.MaxScripts <= 0 || cfg.MaxScripts > DefaultMaxScripts {
		cfg.MaxScripts = DefaultMaxScripts
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsUint64 gets an environment variable as a uint64 or returns a default value
func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
