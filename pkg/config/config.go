// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// File locations
	InputFile    string
	EnrichedFile string
	ReportFile   string
	RulesFile    string

	// Catalog lookup
	CatalogBaseURL string        // empty disables enrichment entirely
	CatalogTimeout time.Duration // per-call timeout

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		// Default values
		InputFile:      getEnv("SALES_INPUT_FILE", "data/sales_data.txt"),
		EnrichedFile:   getEnv("SALES_ENRICHED_FILE", "data/enriched_sales_data.txt"),
		ReportFile:     getEnv("SALES_REPORT_FILE", "output/sales_report.txt"),
		RulesFile:      getEnv("SALES_RULES_FILE", "rules.yaml"),
		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "https://dummyjson.com"),
		CatalogTimeout: time.Duration(getEnvAsInt("CATALOG_TIMEOUT_MS", 5000)) * time.Millisecond,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return errors.New("input file path is required")
	}

	if c.EnrichedFile == "" {
		return errors.New("enriched output file path is required")
	}

	if c.ReportFile == "" {
		return errors.New("report output file path is required")
	}

	if c.CatalogTimeout <= 0 {
		return errors.New("catalog timeout must be positive")
	}

	return nil
}

// EnrichmentEnabled reports whether a catalog base URL is configured.
func (c *Config) EnrichmentEnabled() bool {
	return c.CatalogBaseURL != ""
}

// Helper functions for environment variables

// getEnv retrieves an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
