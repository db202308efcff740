// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/api and cmd/notifyctl.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/finchmedia/notifier/internal/notifications"
)

// Config is populated from environment variables once at startup. The
// resulting snapshot is handed to components at construction; nothing reads
// the environment afterwards.
type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// Auth
	JWTSecret    string
	WebhookToken string

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Host catalog collaborator
	CatalogBaseURL string
	CatalogAPIKey  string
	CatalogTimeout time.Duration

	// Notification generation
	Levels        notifications.Levels
	RetentionDays int
	SettleDelay   time.Duration

	// Maintenance
	PurgeInterval time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults. Only the database URL and JWT secret are mandatory.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	jwtSecret := envOr("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8400)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		JWTSecret:    jwtSecret,
		WebhookToken: envOr("WEBHOOK_TOKEN", ""),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CatalogBaseURL: envOr("CATALOG_BASE_URL", "http://localhost:8096"),
		CatalogAPIKey:  envOr("CATALOG_API_KEY", ""),
		CatalogTimeout: time.Duration(envInt("CATALOG_TIMEOUT_SECONDS", 30)) * time.Second,

		Levels: notifications.Levels{
			Movie:  envLevel("MOVIE_NOTIFICATION_LEVEL", notifications.LevelAll),
			Series: envLevel("SERIES_NOTIFICATION_LEVEL", notifications.LevelAll),
			Music:  envLevel("MUSIC_NOTIFICATION_LEVEL", notifications.LevelDisabled),
			Book:   envLevel("BOOK_NOTIFICATION_LEVEL", notifications.LevelDisabled),
		},
		RetentionDays: envInt("RETENTION_DAYS", notifications.DefaultRetentionDays),
		SettleDelay:   time.Duration(envInt("INTAKE_SETTLE_DELAY_MS", 2000)) * time.Millisecond,

		PurgeInterval: time.Duration(envInt("PURGE_INTERVAL_MINUTES", 30)) * time.Minute,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func envLevel(key string, fallback notifications.Level) notifications.Level {
	if v := os.Getenv(key); v != "" {
		return notifications.ParseLevel(strings.ToLower(strings.TrimSpace(v)), fallback)
	}
	return fallback
}
