package config

import (
	"errors"
	"os"
	"strings"

	"github.com/Simplici0/vitrina/internal/logging"
)

const (
	defaultDBPath = "./dev.db"
	defaultPort   = "8080"
	defaultAppEnv = "development"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv        string
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	Port          string
	PricingFile   string
	Logging       logging.Config
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_, _ = loadDotEnv(".env")

	cfg := Config{
		AppEnv:        strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
		PricingFile:   os.Getenv("PRICING_FILE"),
		Logging: logging.Config{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: os.Getenv("LOG_FORMAT"),
			Output: os.Getenv("LOG_OUTPUT"),
		},
	}

	if cfg.AppEnv == "" {
		cfg.AppEnv = defaultAppEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
		if cfg.IsDev() {
			cfg.Logging.Format = "console"
		}
	}
	cfg.Logging.Development = cfg.IsDev()

	return cfg
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

// Warnings lists settings that are missing but not fatal.
func (c Config) Warnings() []string {
	var warnings []string
	if c.AdminEmail == "" {
		warnings = append(warnings, "ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		warnings = append(warnings, "ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set")
	}
	return warnings
}

// ErrMissingSessionSecret is returned by Validate outside development when SESSION_SECRET is empty.
var ErrMissingSessionSecret = errors.New("SESSION_SECRET is required outside development")

// Validate reports settings the server cannot run without.
func (c Config) Validate() error {
	if c.SessionSecret == "" && !c.IsDev() {
		return ErrMissingSessionSecret
	}
	return nil
}
