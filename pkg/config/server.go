package config

import (
	"log/slog"
	"time"
)

// ServerConfig holds the API server's process settings.
type ServerConfig struct {
	Port        int
	DatabaseURL string // Empty runs on the in-memory demo store
	RedisAddr   string // Empty keeps preferences in process memory
	JWTSecret   string
	ForumConfig string // Path of the YAML forum config; empty uses defaults

	LogLevel  string
	LogFormat string

	TraceSampleRatio float64

	RateLimit RateLimitConfig

	// JanitorSchedule is the cron schedule of the maintenance job.
	JanitorSchedule string
	ShutdownTimeout time.Duration
	SessionMaxAge   time.Duration
}

// RateLimitConfig configures the per-client limiter on feed routes.
type RateLimitConfig struct {
	Enabled   bool
	PerMinute int
	Burst     int
	// IdleTTL drops clients that have been quiet this long.
	IdleTTL time.Duration
}

// LoadServerConfig loads server settings from environment variables.
//
// Environment variables:
//   - PORT (default: 8080)
//   - DATABASE_URL, REDIS_ADDR, JWT_SECRET, FORUM_CONFIG
//   - LOG_LEVEL (default: info), LOG_FORMAT (default: json)
//   - TRACE_SAMPLE_RATIO (default: 1)
//   - RATELIMIT_ENABLED (default: true), RATELIMIT_FEED_PER_MINUTE (default: 60),
//     RATELIMIT_FEED_BURST (default: 20), RATELIMIT_IDLE_TTL (default: 10m)
//   - JANITOR_SCHEDULE (default: "@every 5m")
//   - SHUTDOWN_TIMEOUT (default: 10s), SESSION_MAX_AGE (default: 720h)
func LoadServerConfig() ServerConfig {
	c := ServerConfig{
		Port:             GetEnvInt("PORT", 8080),
		DatabaseURL:      GetEnvString("DATABASE_URL", ""),
		RedisAddr:        GetEnvString("REDIS_ADDR", ""),
		JWTSecret:        GetEnvString("JWT_SECRET", ""),
		ForumConfig:      GetEnvString("FORUM_CONFIG", ""),
		LogLevel:         GetEnvString("LOG_LEVEL", "info"),
		LogFormat:        GetEnvString("LOG_FORMAT", "json"),
		TraceSampleRatio: GetEnvFloat("TRACE_SAMPLE_RATIO", 1),
		RateLimit: RateLimitConfig{
			Enabled:   GetEnvBool("RATELIMIT_ENABLED", true),
			PerMinute: GetEnvInt("RATELIMIT_FEED_PER_MINUTE", 60),
			Burst:     GetEnvInt("RATELIMIT_FEED_BURST", 20),
			IdleTTL:   GetEnvDuration("RATELIMIT_IDLE_TTL", 10*time.Minute),
		},
		JanitorSchedule: GetEnvString("JANITOR_SCHEDULE", "@every 5m"),
		ShutdownTimeout: GetEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		SessionMaxAge:   GetEnvDuration("SESSION_MAX_AGE", 30*24*time.Hour),
	}

	if c.Port <= 0 || c.Port > 65535 {
		slog.Warn("invalid PORT, using default", slog.Int("value", c.Port), slog.Int("default", 8080))
		c.Port = 8080
	}
	if err := ValidateRatio(c.TraceSampleRatio); err != nil {
		slog.Warn("invalid TRACE_SAMPLE_RATIO, using default", slog.String("error", err.Error()))
		c.TraceSampleRatio = 1
	}
	if c.RateLimit.PerMinute <= 0 {
		slog.Warn("invalid RATELIMIT_FEED_PER_MINUTE, using default", slog.Int("value", c.RateLimit.PerMinute))
		c.RateLimit.PerMinute = 60
	}
	if c.RateLimit.Burst <= 0 {
		slog.Warn("invalid RATELIMIT_FEED_BURST, using default", slog.Int("value", c.RateLimit.Burst))
		c.RateLimit.Burst = 20
	}
	if err := ValidatePositiveDuration(c.RateLimit.IdleTTL); err != nil {
		slog.Warn("invalid RATELIMIT_IDLE_TTL, using default", slog.String("error", err.Error()))
		c.RateLimit.IdleTTL = 10 * time.Minute
	}
	if err := ValidateCronSchedule(c.JanitorSchedule); err != nil {
		slog.Warn("invalid JANITOR_SCHEDULE, using default", slog.String("error", err.Error()))
		c.JanitorSchedule = "@every 5m"
	}
	if err := ValidatePositiveDuration(c.ShutdownTimeout); err != nil {
		slog.Warn("invalid SHUTDOWN_TIMEOUT, using default", slog.String("error", err.Error()))
		c.ShutdownTimeout = 10 * time.Second
	}
	return c
}
