package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string
	DBMigrate    bool

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Observability (optional)
	SentryDSN string
	LogLevel  string

	// Session gate (optional: empty REDIS_URL keeps session state in memory)
	RedisURL   string
	SessionTTL time.Duration

	// Community
	DefaultEventCapacity int
	UpcomingEventsLimit  int
	WriteRateLimit       int // state-changing requests per user per minute
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "FitCircle"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/fitcircle.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),
		DBMigrate:    envBool("DB_MIGRATE", true),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
		LogLevel:  envString("LOG_LEVEL", ""),

		// Session gate
		RedisURL:   envString("REDIS_URL", ""),
		SessionTTL: envDuration("SESSION_TTL", 12*time.Hour),

		// Community
		DefaultEventCapacity: envInt("DEFAULT_EVENT_CAPACITY", 20),
		UpcomingEventsLimit:  envInt("UPCOMING_EVENTS_LIMIT", 3),
		WriteRateLimit:       envInt("WRITE_RATE_LIMIT", 30),
	}

	// Production: validate settings that only matter once deployed
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction rejects development defaults in production deployments.
func validateProduction(cfg *Config) {
	if len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires a JWT_SECRET of at least 32 characters")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		slog.Warn("config invalid positive int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Level returns the configured log level. An unset or unknown LOG_LEVEL
// falls back to debug in development and info otherwise.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err == nil && c.LogLevel != "" {
		return level
	}
	if c.IsDevelopment() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Sanitized returns a copy of the config with only public/safe fields.
// Secrets and connection strings are excluded. Safe to log.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:              c.AppName,
		AppEnv:               c.AppEnv,
		Port:                 c.Port,
		DBDriver:             c.DBDriver,
		JWTExpiry:            c.JWTExpiry,
		LogLevel:             c.LogLevel,
		SessionTTL:           c.SessionTTL,
		DefaultEventCapacity: c.DefaultEventCapacity,
		UpcomingEventsLimit:  c.UpcomingEventsLimit,
		WriteRateLimit:       c.WriteRateLimit,
	}
}
