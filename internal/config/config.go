package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the terminal
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Auth     AuthConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type StorageConfig struct {
	// DataDir is the directory holding the primary store and the fallback mirror
	DataDir string
	// FallbackLimitBytes caps the payload size mirrored into the fallback store
	FallbackLimitBytes int
	// DebounceMillis is the quiet period collapsing bursts of catalog edits into one write
	DebounceMillis int
	// SeedFile optionally overrides the built-in default catalog (TOML)
	SeedFile string
}

type AuthConfig struct {
	// APIKeys locks mutating endpoints when non-empty; empty disables the
	// lock for a terminal running on a trusted single-operator device
	APIKeys []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "127.0.0.1"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Storage: StorageConfig{
			DataDir:            getEnv("DATA_DIR", defaultDataDir()),
			FallbackLimitBytes: getEnvAsInt("FALLBACK_LIMIT_BYTES", 5*1024*1024),
			DebounceMillis:     getEnvAsInt("DEBOUNCE_MS", 100),
			SeedFile:           getEnv("SEED_FILE", ""),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", nil),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Storage.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}

	if c.Storage.FallbackLimitBytes <= 0 {
		return fmt.Errorf("FALLBACK_LIMIT_BYTES must be positive")
	}

	if c.Storage.DebounceMillis < 0 {
		return fmt.Errorf("DEBOUNCE_MS must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "smartpos-data"
	}
	return filepath.Join(home, ".local", "share", "smartpos")
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

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

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
