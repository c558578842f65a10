package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultSnapshotTTL  = time.Hour
)

// Config holds all configuration for the application
type Config struct {
	Port    string
	GinMode string

	LogLevel  string
	LogFormat string // json or text
	LogFile   string // rotated file output, disabled when empty

	FetchTimeout time.Duration // upper bound for the single upstream request
	SnapshotTTL  time.Duration // freshness window of the cached snapshot
}

// LoadConfig reads configuration from environment variables (.env file)
func LoadConfig() (*Config, error) {
	// Load .env file. In production, env variables are often set directly.
	_ = godotenv.Load()

	fetchTimeout, err := getDuration("FETCH_TIMEOUT", DefaultFetchTimeout)
	if err != nil {
		return nil, err
	}

	snapshotTTL, err := getDuration("SNAPSHOT_TTL", DefaultSnapshotTTL)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		GinMode:      getEnv("GIN_MODE", "release"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		LogFile:      getEnv("LOG_FILE", ""),
		FetchTimeout: fetchTimeout,
		SnapshotTTL:  snapshotTTL,
	}, nil
}

// Helper function to get env var or return default
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}

	return d, nil
}
