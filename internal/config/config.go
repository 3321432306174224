package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// MongoDB Configuration
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// HTTP Server Configuration
	HTTPPort         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// Monitoring Configuration
	MonitorAutoStart     bool
	MonitorHourlyLimit   int
	MonitorDailyLimit    int
	MonitorNotifications bool
	MonitorRunTimeout    time.Duration
	RetryAttempts        int
	RetryDelay           time.Duration
	RetryConcurrency     int
	RunLockTTL           time.Duration

	// Checker Configuration
	CheckerTimeout     time.Duration
	CheckerConcurrency int

	// Notification Configuration
	NotifyGatewayURL string
	NotifyTimeout    time.Duration

	// Telemetry Configuration
	TelemetryURL     string
	TelemetryTimeout time.Duration

	// Logging Configuration
	LogLevel  string
	LogFormat string

	// CORS Configuration
	CORSAllowedOrigins   string
	CORSAllowedMethods   string
	CORSAllowedHeaders   string
	CORSAllowCredentials bool
	CORSMaxAge           int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		// MongoDB
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017/pricehawk?authSource=admin"),
		MongoDatabase: getEnv("MONGO_DATABASE", "pricehawk"),
		MongoTimeout:  getDurationEnv("MONGO_TIMEOUT_SEC", 10) * time.Second,

		// HTTP Server
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT_SEC", 30) * time.Second,
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT_SEC", 30) * time.Second,

		// Monitoring
		MonitorAutoStart:     getBoolEnv("MONITOR_AUTO_START", false),
		MonitorHourlyLimit:   getIntEnv("MONITOR_HOURLY_LIMIT", 50),
		MonitorDailyLimit:    getIntEnv("MONITOR_DAILY_LIMIT", 1000),
		MonitorNotifications: getBoolEnv("MONITOR_NOTIFICATIONS", true),
		MonitorRunTimeout:    getDurationEnv("MONITOR_RUN_TIMEOUT_SEC", 600) * time.Second,
		RetryAttempts:        getIntEnv("MONITOR_RETRY_ATTEMPTS", 3),
		RetryDelay:           getDurationEnv("MONITOR_RETRY_DELAY_MS", 5000) * time.Millisecond,
		RetryConcurrency:     getIntEnv("MONITOR_RETRY_CONCURRENCY", 1),
		RunLockTTL:           getDurationEnv("MONITOR_RUN_LOCK_TTL_SEC", 900) * time.Second,

		// Checker
		CheckerTimeout:     getDurationEnv("CHECKER_TIMEOUT_SEC", 30) * time.Second,
		CheckerConcurrency: getIntEnv("CHECKER_CONCURRENCY", 5),

		// Notifications
		NotifyGatewayURL: getEnv("NOTIFY_GATEWAY_URL", ""),
		NotifyTimeout:    getDurationEnv("NOTIFY_TIMEOUT_SEC", 10) * time.Second,

		// Telemetry
		TelemetryURL:     getEnv("TELEMETRY_URL", ""),
		TelemetryTimeout: getDurationEnv("TELEMETRY_TIMEOUT_SEC", 5) * time.Second,

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// CORS
		CORSAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowedMethods:   getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS, PATCH"),
		CORSAllowedHeaders:   getEnv("CORS_ALLOWED_HEADERS", "*"),
		CORSAllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAge:           getIntEnv("CORS_MAX_AGE", 3600),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
		log.Printf("Warning: Invalid duration value for %s, using default %d", key, defaultValue)
	}
	return time.Duration(defaultValue)
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
	}
	return defaultValue
}
