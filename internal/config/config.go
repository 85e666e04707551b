package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"snaptext/internal/logger"
)

// DefaultHistoryLimit is the maximum number of history records retained.
const DefaultHistoryLimit = 50

type Config struct {
	// Google Cloud Configuration
	GoogleAPIKey            string // Translate API (API-key auth)
	GoogleCredentialsFile   string // Vision API service account file
	GoogleCredentialsInline string // Vision API inline JSON credentials

	// History Configuration
	DataDir      string
	HistoryLimit int

	// Default target language for chained translation ("" = no chaining)
	DefaultTargetLanguage string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		GoogleAPIKey:            getEnv("GOOGLE_API_KEY", ""),
		GoogleCredentialsFile:   getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleCredentialsInline: getEnv("GOOGLE_CREDENTIALS", ""),
		DataDir:                 getEnv("SNAPTEXT_DATA_DIR", ""),
		DefaultTargetLanguage:   getEnv("SNAPTEXT_TARGET_LANG", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:           getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:               getEnv("LOG_OUTPUT", "stderr"),
	}

	limit := getEnv("SNAPTEXT_HISTORY_LIMIT", "")
	if limit == "" {
		config.HistoryLimit = DefaultHistoryLimit
	} else {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("SNAPTEXT_HISTORY_LIMIT must be a positive integer, got %q", limit)
		}
		config.HistoryLimit = n
	}

	if config.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine data directory: %w", err)
		}
		config.DataDir = dir
	}

	return config, nil
}

func defaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "snaptext"), nil
}

// GetLoggerConfig returns a logger configuration from the main config.
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
