package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"taxietl/database"
)

// Rank modes accepted by RANK_MODE.
const (
	RankModeCompetition = "competition"
	RankModeDense       = "dense"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Input files
	TripFile string // Monthly green taxi trip CSV
	ZoneFile string // TLC taxi zone lookup CSV, used by "zones load"

	// Ranking
	RankMode string // "competition" (SQL RANK) or "dense"

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// GetDatabaseURL combines DATABASE_URL and DATABASE_NAME
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		TripFile: expandHome(getEnvWithDefault("TRIP_FILE", "~/data_files_airflow/green_tripdata.csv")),
		ZoneFile: expandHome(getEnvWithDefault("ZONE_FILE", "~/data_files_airflow/taxi_zone_lookup.csv")),

		RankMode: strings.ToLower(getEnvWithDefault("RANK_MODE", RankModeCompetition)),
		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the settings that have no usable default
func (c *Config) Validate() error {
	if c.RankMode != RankModeCompetition && c.RankMode != RankModeDense {
		return fmt.Errorf("RANK_MODE must be %q or %q, got %q", RankModeCompetition, RankModeDense, c.RankMode)
	}
	if c.Environment == "test" {
		return nil
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
		return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}
	return nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment: "test",
		RankMode:    RankModeCompetition,
		LogLevel:    "debug",
	}
}
