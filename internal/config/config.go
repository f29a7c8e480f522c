package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all process-wide settings. Loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	Port        string
	DatabaseURL string

	SecretKey string        // HS256 signing key, required
	TokenTTL  time.Duration // access token lifetime (default: 20m)

	DBMaxOpen     int
	DBMaxIdle     int
	DBMaxLifetime time.Duration

	LogLevel  string // debug, info, warn, error (default: info)
	LogFormat string // json, text (default: json)
}

// Load reads configuration from environment variables. SECRET_KEY and
// DATABASE_URL have no defaults; startup must fail without them.
func Load() (Config, error) {
	cfg := Config{
		Port:          getenv("PORT", "4000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SecretKey:     os.Getenv("SECRET_KEY"),
		TokenTTL:      getenvDuration("TOKEN_TTL", 20*time.Minute),
		DBMaxOpen:     getenvInt("DB_MAX_OPEN", 25),
		DBMaxIdle:     getenvInt("DB_MAX_IDLE", 25),
		DBMaxLifetime: getenvDuration("DB_MAX_LIFETIME", 5*time.Minute),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "json"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("config: DATABASE_URL is required")
	}
	if cfg.SecretKey == "" {
		return Config{}, errors.New("config: SECRET_KEY is required")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

// getenvDuration accepts Go durations ("20m", "1h") with a bare-integer
// minutes fallback ("20").
func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if min, err := strconv.Atoi(v); err == nil {
		return time.Duration(min) * time.Minute
	}
	return def
}
