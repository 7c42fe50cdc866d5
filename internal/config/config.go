package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Env      string
	HTTPAddr string
	BaseURL  string

	DBDSN     string
	JWTSecret string

	LogLevel string

	SessionDays int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Env = strings.TrimSpace(os.Getenv("CP_ENV"))
	if cfg.Env == "" {
		return nil, fmt.Errorf("CP_ENV is required")
	}
	if cfg.Env != "dev" && cfg.Env != "prod" {
		return nil, fmt.Errorf("CP_ENV must be one of: dev, prod (got: %s)", cfg.Env)
	}

	cfg.HTTPAddr = getEnvOrDefault("CP_HTTP_ADDR", ":8080")

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("CP_BASE_URL")), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("CP_BASE_URL is required")
	}

	cfg.DBDSN = strings.TrimSpace(os.Getenv("CP_DB_DSN"))
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("CP_DB_DSN is required")
	}

	cfg.JWTSecret = os.Getenv("CP_JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("CP_JWT_SECRET is required")
	}
	if cfg.Env == "prod" && len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("CP_JWT_SECRET must be at least 32 characters (currently %d)", len(cfg.JWTSecret))
	}

	cfg.LogLevel = getEnvOrDefault("CP_LOG_LEVEL", "info")
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("CP_LOG_LEVEL must be one of: debug, info, warn, error (got: %s)", cfg.LogLevel)
	}

	var err error
	cfg.SessionDays, err = getEnvIntOrDefault("CP_SESSION_DAYS", 7)
	if err != nil {
		return nil, err
	}
	if cfg.SessionDays <= 0 || cfg.SessionDays > 90 {
		return nil, fmt.Errorf("CP_SESSION_DAYS must be between 1 and 90 (got: %d)", cfg.SessionDays)
	}

	return cfg, nil
}

// IsDev returns true if running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// RedactedValues returns a map of config values with secrets redacted.
func (c *Config) RedactedValues() map[string]string {
	return map[string]string{
		"CP_ENV":          c.Env,
		"CP_HTTP_ADDR":    c.HTTPAddr,
		"CP_BASE_URL":     c.BaseURL,
		"CP_DB_DSN":       redactDSN(c.DBDSN),
		"CP_JWT_SECRET":   "[REDACTED]",
		"CP_LOG_LEVEL":    c.LogLevel,
		"CP_SESSION_DAYS": fmt.Sprintf("%d", c.SessionDays),
	}
}

func redactDSN(dsn string) string {
	if start := strings.Index(dsn, "://"); start != -1 {
		if end := strings.Index(dsn[start+3:], "@"); end != -1 {
			return dsn[:start+3] + "[REDACTED]" + dsn[start+3+end:]
		}
	}
	return dsn
}

func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer (got: %q)", key, value)
	}
	return parsed, nil
}
