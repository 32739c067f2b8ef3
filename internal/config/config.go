// Package config reads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"physio/internal/domain/schedule"

	"github.com/joho/godotenv"
)

// DefaultSecret is the development session secret. It is refused in production.
const DefaultSecret = "dev"

// ErrDefaultSecret is returned when production runs with the development secret.
var ErrDefaultSecret = errors.New("PHYSIO_SECRET_KEY must be set to a non-default value in production")

// Config holds every runtime setting of the server.
type Config struct {
	DBPath       string
	SecretKey    string
	Addr         string
	Env          string
	SchemaPath   string
	ExportScope  schedule.ExportScope
	SeedPassword string
	ResendKey    string
	EmailFrom    string
	LogLevel     slog.Level
	RateLimit    float64
	SlowQuery    time.Duration
	SlowRequest  time.Duration
}

// Production reports whether the server runs with production settings.
func (c Config) Production() bool {
	return c.Env == "production"
}

// Load builds a Config from the process environment, falling back to values in
// envFile (".env" when empty) and then to defaults. A missing file is not an error.
// PRE: none
// POST: Returns a validated Config, or an error naming the offending variable
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	fileVars, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", envFile, err)
	}
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		if v := strings.TrimSpace(fileVars[key]); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		DBPath:       get("PHYSIO_DB", "app.db"),
		SecretKey:    get("PHYSIO_SECRET_KEY", DefaultSecret),
		Addr:         get("PHYSIO_ADDR", ":8080"),
		Env:          get("PHYSIO_ENV", "development"),
		SchemaPath:   get("PHYSIO_SCHEMA_PATH", ""),
		SeedPassword: get("PHYSIO_SEED_PASSWORD", "secret"),
		ResendKey:    get("PHYSIO_RESEND_KEY", ""),
		EmailFrom:    get("PHYSIO_EMAIL_FROM", "Physio <noreply@example.com>"),
	}

	if cfg.ExportScope, err = schedule.ParseExportScope(get("PHYSIO_EXPORT_SCOPE", "pending")); err != nil {
		return Config{}, fmt.Errorf("PHYSIO_EXPORT_SCOPE: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(get("PHYSIO_LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("PHYSIO_LOG_LEVEL: %w", err)
	}
	if cfg.RateLimit, err = strconv.ParseFloat(get("PHYSIO_RATE_LIMIT", "10"), 64); err != nil || cfg.RateLimit <= 0 {
		return Config{}, fmt.Errorf("PHYSIO_RATE_LIMIT must be a positive number")
	}
	if cfg.SlowQuery, err = millis(get("PHYSIO_SLOW_QUERY_MS", "50")); err != nil {
		return Config{}, fmt.Errorf("PHYSIO_SLOW_QUERY_MS: %w", err)
	}
	if cfg.SlowRequest, err = millis(get("PHYSIO_SLOW_REQUEST_MS", "200")); err != nil {
		return Config{}, fmt.Errorf("PHYSIO_SLOW_REQUEST_MS: %w", err)
	}

	if cfg.Production() && cfg.SecretKey == DefaultSecret {
		return Config{}, ErrDefaultSecret
	}
	return cfg, nil
}

func millis(v string) (time.Duration, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("must be a positive whole number of milliseconds, got %q", v)
	}
	return time.Duration(n) * time.Millisecond, nil
}
