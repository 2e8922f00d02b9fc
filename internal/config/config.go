package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/database"
	"github.com/Kenia972/myyowntour-sub000/internal/external"
	"github.com/Kenia972/myyowntour-sub000/internal/messaging"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	Database      database.Config
	NATS          messaging.Config
	Elasticsearch ElasticsearchConfig
	Platform      external.PlatformConfig
	Email         external.EmailConfig

	// Worker job intervals
	CompletionInterval time.Duration
	ReminderInterval   time.Duration
	AuditInterval      time.Duration
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "myowntour"),
			Password:           getEnv("DB_PASSWORD", "myowntour123"),
			DBName:             getEnv("DB_NAME", "myowntour"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "myowntour"),
			ClientID:  getEnv("NATS_CLIENT_ID", "myowntour-api"),
		},

		Elasticsearch: ElasticsearchConfig{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "excursions"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},

		Platform: external.PlatformConfig{
			BaseURL: getEnv("PLATFORM_RPC_URL", "http://localhost:9980"),
			APIKey:  getEnv("PLATFORM_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("PLATFORM_TIMEOUT_SEC", 30)) * time.Second,
		},

		Email: external.EmailConfig{
			BaseURL:     getEnv("EMAIL_API_URL", "https://api.resend.com"),
			APIKey:      getEnv("EMAIL_API_KEY", ""),
			FromAddress: getEnv("EMAIL_FROM", "reservations@myowntour.app"),
			Timeout:     time.Duration(getEnvInt("EMAIL_TIMEOUT_SEC", 30)) * time.Second,
		},

		CompletionInterval: time.Duration(getEnvInt("COMPLETION_INTERVAL_SEC", 300)) * time.Second,
		ReminderInterval:   time.Duration(getEnvInt("REMINDER_INTERVAL_SEC", 3600)) * time.Second,
		AuditInterval:      time.Duration(getEnvInt("AUDIT_INTERVAL_SEC", 900)) * time.Second,
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer environment variable value or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
