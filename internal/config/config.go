// Package config handles environment resolution and configuration loading
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var errInvalidDuration = errors.New("invalid duration")

// AppConfig holds the run configuration loaded from environment variables.
type AppConfig struct {
	Environment     string
	BaseURLOverride string
	Timeouts        Timeouts
	LogLevel        string
}

// Load reads configuration from environment variables and .env file
func Load() (*AppConfig, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &AppConfig{
		Environment:     getEnv("API_ENV", string(DefaultEnvironment)),
		BaseURLOverride: getEnv("API_BASE_URL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Timeouts:        DefaultTimeouts(),
	}

	var err error

	if cfg.Timeouts.Connection, err = parseDuration("CONNECTION_TIMEOUT", cfg.Timeouts.Connection); err != nil {
		return nil, err
	}

	if cfg.Timeouts.Read, err = parseDuration("READ_TIMEOUT", cfg.Timeouts.Read); err != nil {
		return nil, err
	}

	if cfg.Timeouts.MaxResponse, err = parseDuration("MAX_RESPONSE_TIME", cfg.Timeouts.MaxResponse); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Resolve resolves the configured environment, or the given selector when it is not empty,
// and applies the base URL override and timeout settings.
func (c *AppConfig) Resolve(selector string) (Resolved, error) {
	if strings.TrimSpace(selector) == "" {
		selector = c.Environment
	}

	resolved, err := ResolveEnvironment(selector)
	if err != nil {
		return Resolved{}, err
	}

	if c.BaseURLOverride != "" {
		resolved.BaseURL = strings.TrimRight(c.BaseURLOverride, "/")
	}

	resolved.Timeouts = c.Timeouts

	return resolved, nil
}

func (c *AppConfig) String() string {
	overrideDisplay := c.BaseURLOverride
	if overrideDisplay == "" {
		overrideDisplay = "(not set)"
	}

	baseURLDisplay := Environment(strings.ToUpper(c.Environment)).BaseURL()
	if baseURLDisplay == "" {
		baseURLDisplay = "(unknown environment)"
	}

	return fmt.Sprintf(`Current Configuration:
======================
Environment:              %s
Base URL:                 %s
Base URL Override:        %s
Connection Timeout:       %s
Read Timeout:             %s
Max Response Time:        %s
Log Level:                %s`,
		c.Environment,
		baseURLDisplay,
		overrideDisplay,
		c.Timeouts.Connection,
		c.Timeouts.Read,
		c.Timeouts.MaxResponse,
		c.LogLevel,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration accepts Go duration strings ("2s") or a bare number of milliseconds ("2000").
func parseDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("%w for %s: %q", errInvalidDuration, key, raw)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w for %s: %q", errInvalidDuration, key, raw)
	}

	return d, nil
}
