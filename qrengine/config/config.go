// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// HTTPAddr is the listen address of the event API, e.g. ":8080".
	HTTPAddr string

	// LocalesDir is the directory holding the locale catalogs.
	LocalesDir string

	// DefaultLocale is the catalog fallback locale.
	DefaultLocale string

	// LogLevel is the minimum log level: debug, info, warn, error.
	LogLevel string

	// TracingEnabled toggles OTLP trace export.
	TracingEnabled bool

	// OTLPEndpoint is the OTLP gRPC collector address.
	OTLPEndpoint string

	// ServiceVersion is reported as a trace resource attribute.
	ServiceVersion string

	// Environment names the deployment (development, staging, production).
	Environment string

	// TraceSampleRatio in (0, 1) samples that fraction of traces;
	// 1 keeps everything.
	TraceSampleRatio float64

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration

	// RequestTimeout bounds a single event request.
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		LocalesDir:       getEnv("LOCALES_DIR", "./locales"),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "en"),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
		TracingEnabled:   getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:     getEnv("OTLP_ENDPOINT", "localhost:4317"),
		ServiceVersion:   getEnv("SERVICE_VERSION", "dev"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		TraceSampleRatio: getEnvFloat("TRACE_SAMPLE_RATIO", 1.0),
		ShutdownTimeout:  time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		RequestTimeout:   time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR cannot be empty")
	}
	if c.LocalesDir == "" {
		return fmt.Errorf("LOCALES_DIR cannot be empty")
	}
	if c.DefaultLocale == "" {
		return fmt.Errorf("DEFAULT_LOCALE cannot be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	if c.TracingEnabled && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP_ENDPOINT cannot be empty when tracing is enabled")
	}
	if c.TraceSampleRatio <= 0 || c.TraceSampleRatio > 1 {
		return fmt.Errorf("TRACE_SAMPLE_RATIO must be in (0, 1]; got %v", c.TraceSampleRatio)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
