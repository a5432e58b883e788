package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"hallsync/internal/backend"
	"hallsync/internal/coordinator"
)

// Config holds the console configuration, loaded from the environment.
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// PollInterval drives the reconciliation pollers.
	PollInterval time.Duration

	Backend     backend.Config
	Coordinator coordinator.Config
}

// Load reads the environment, picking up a .env file when one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8090"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		PollInterval: time.Duration(getEnvInt("POLL_INTERVAL_SEC", 5)) * time.Second,

		Backend: backend.Config{
			BaseURL: getEnv("BACKEND_URL", "http://localhost:8000"),
			Timeout: time.Duration(getEnvInt("BACKEND_TIMEOUT_SEC", 30)) * time.Second,
		},

		Coordinator: coordinator.Config{
			EventID:           int64(getEnvInt("EVENT_ID", 1)),
			HallType:          getEnv("HALL_TYPE", ""),
			TableSaveDelay:    time.Duration(getEnvInt("TABLE_SAVE_DELAY_MS", 500)) * time.Millisecond,
			PositionSaveDelay: time.Duration(getEnvInt("POSITION_SAVE_DELAY_MS", 2000)) * time.Millisecond,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
