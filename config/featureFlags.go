package config

import (
	"os"
	"strconv"
	"strings"
)

func envTrue(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// IsProduction reports GO_ENV=production.
func IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production")
}

// SkipMigrations disables AutoMigrate on startup (run them as a separate job instead).
//
// Set via env:
// - SKIP_MIGRATIONS=true
func SkipMigrations() bool {
	return envTrue("SKIP_MIGRATIONS")
}

// RateLimitEnabled turns on the Redis-backed per-IP limiter.
//
// Set via env:
// - RATE_LIMIT_ENABLED=true
// - RATE_LIMIT_WINDOW_SECONDS=60
// - RATE_LIMIT_MAX_REQUESTS=600
func RateLimitEnabled() bool {
	return envTrue("RATE_LIMIT_ENABLED")
}

func RateLimitMaxRequests() int64 {
	return int64(intFromEnv("RATE_LIMIT_MAX_REQUESTS", 600))
}

func RateLimitWindowSeconds() int64 {
	return int64(intFromEnv("RATE_LIMIT_WINDOW_SECONDS", 60))
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
