package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the analysis engine.
type Config struct {
	// Service addresses
	HealthPort  string
	NatsURL     string
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	DatabaseURL string

	// External collaborator scripts
	PythonBin      string
	PCAPScriptPath string
	MLScriptPath   string
	EnableML       bool

	// Cache
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	// Rate limiting
	RateSweepInterval time.Duration
	RouteLimitsPath   string
	RouteLimits       RouteLimits

	// Capture queue
	CaptureBatchSize     int
	CaptureFlushInterval time.Duration

	// Audit batcher
	AuditBatchSize     int
	AuditFlushInterval time.Duration
	AuditMaxPending    int
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	// Try multiple .env locations
	envPaths := []string{
		".env",
		"../.env",
		"/app/.env", // Docker
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("Loaded config from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Printf("No .env file found, using environment variables")
	}

	config := &Config{
		HealthPort:  getEnvOrDefault("HEALTH_PORT", "8081"),
		NatsURL:     getEnvOrDefault("NATS_URL", "nats://localhost:4222"),
		RedisAddr:   getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPass:   getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:     parseIntOrDefault("REDIS_DB", 0),
		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),

		PythonBin:      getEnvOrDefault("PYTHON_BIN", "python3"),
		PCAPScriptPath: getEnvOrDefault("PCAP_SCRIPT_PATH", "scripts/pcap_processor.py"),
		MLScriptPath:   getEnvOrDefault("ML_SCRIPT_PATH", "scripts/ml_inference.py"),
		EnableML:       getEnvOrDefault("ENABLE_ML", "false") == "true",

		CacheTTL:           secondsOrDefault("CACHE_TTL_SECONDS", 300),
		CacheSweepInterval: secondsOrDefault("CACHE_SWEEP_SECONDS", 300),

		RateSweepInterval: secondsOrDefault("RATE_SWEEP_SECONDS", 60),
		RouteLimitsPath:   getEnvOrDefault("ROUTE_LIMITS_PATH", ""),

		CaptureBatchSize:     parseIntOrDefault("CAPTURE_BATCH_SIZE", 10),
		CaptureFlushInterval: secondsOrDefault("CAPTURE_FLUSH_SECONDS", 5),

		AuditBatchSize:     parseIntOrDefault("AUDIT_BATCH_SIZE", 10),
		AuditFlushInterval: secondsOrDefault("AUDIT_FLUSH_SECONDS", 5),
		AuditMaxPending:    parseIntOrDefault("AUDIT_MAX_PENDING", 100),
	}

	limits, err := LoadRouteLimits(config.RouteLimitsPath)
	if err != nil {
		return nil, err
	}
	config.RouteLimits = limits

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.HealthPort == "" {
		return fmt.Errorf("HEALTH_PORT is required")
	}

	if c.CaptureBatchSize <= 0 {
		return fmt.Errorf("CAPTURE_BATCH_SIZE must be positive")
	}

	if c.AuditMaxPending < c.AuditBatchSize {
		return fmt.Errorf("AUDIT_MAX_PENDING must be at least AUDIT_BATCH_SIZE")
	}

	return nil
}

// Helper functions
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func secondsOrDefault(key string, defaultSeconds int) time.Duration {
	return time.Duration(parseIntOrDefault(key, defaultSeconds)) * time.Second
}
