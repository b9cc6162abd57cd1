package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"importsvc/database"
	"importsvc/logging"
)

// AppConfig holds application-wide system configuration.
type AppConfig struct {
	HTTPAddr    string
	HTTPLogPath string
	Database    *database.Config
	Logging     *logging.Config
	Auth        *AuthConfig
	Catalog     *CatalogConfig
	Import      *ImportConfig
}

// AuthConfig holds token signing configuration.
type AuthConfig struct {
	SecretKey string
	TokenTTL  time.Duration
}

// CatalogConfig holds external catalog client configuration.
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ImportConfig holds import run tuning. The delays exist to make progress
// observable incrementally; FailureRate is the probability that a run is
// failed synthetically to exercise the rollback path.
type ImportConfig struct {
	StartupDelay time.Duration
	PerItemDelay time.Duration
	FailureRate  float64
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", ":8080"),
		HTTPLogPath: getEnvWithDefault("HTTP_LOG_PATH", ""),
		Database:    LoadDatabaseConfigFromEnv(),
		Logging:     LoadLoggingConfigFromEnv(),
		Auth:        LoadAuthConfigFromEnv(),
		Catalog:     LoadCatalogConfigFromEnv(),
		Import:      LoadImportConfigFromEnv(),
	}
}

// LoadDatabaseConfigFromEnv loads database configuration from environment variables.
func LoadDatabaseConfigFromEnv() *database.Config {
	return &database.Config{
		Path:              getEnvWithDefault("DB_PATH", "./importsvc.db"),
		MaxOpenConns:      getEnvIntWithDefault("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:      getEnvIntWithDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:   getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime:   getEnvDurationWithDefault("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
		BusyTimeoutMs:     getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", 5000),
		EnableForeignKeys: getEnvBoolWithDefault("DB_ENABLE_FOREIGN_KEYS", true),
		EnableWAL:         getEnvBoolWithDefault("DB_ENABLE_WAL", true),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration from environment variables.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "json"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stdout"),
	}
}

// LoadAuthConfigFromEnv loads token signing configuration from environment variables.
func LoadAuthConfigFromEnv() *AuthConfig {
	return &AuthConfig{
		SecretKey: getEnvWithDefault("AUTH_SECRET_KEY", "change-me-in-production"),
		TokenTTL:  getEnvDurationWithDefault("AUTH_TOKEN_TTL", 168*time.Hour),
	}
}

// LoadCatalogConfigFromEnv loads external catalog configuration from environment variables.
func LoadCatalogConfigFromEnv() *CatalogConfig {
	return &CatalogConfig{
		BaseURL: getEnvWithDefault("CATALOG_BASE_URL", "https://dummyjson.com"),
		Timeout: getEnvDurationWithDefault("CATALOG_TIMEOUT", 30*time.Second),
	}
}

// LoadImportConfigFromEnv loads import run tuning from environment variables.
func LoadImportConfigFromEnv() *ImportConfig {
	return &ImportConfig{
		StartupDelay: getEnvDurationWithDefault("IMPORT_STARTUP_DELAY", 2*time.Second),
		PerItemDelay: getEnvDurationWithDefault("IMPORT_PER_ITEM_DELAY", 200*time.Millisecond),
		FailureRate:  getEnvFloatWithDefault("IMPORT_FAILURE_RATE", 0.1),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Helper functions for environment variable parsing.
func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
