package config

import (
	"fmt"
	"os"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Metrics scrape endpoint address
	MetricsAddr string

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.MetricsAddr == "" {
		config.MetricsAddr = ":9090"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
