package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host     string
	Port     string
	DBPath   string
	Debug    bool
	LogLevel string
	Timezone string
	Seed     bool

	// Observability (optional)
	SentryDSN string

	// Status updates allowed per client IP per minute
	UpdateRateLimit int

	// Backup target (S3-compatible: AWS S3, MinIO, R2, ...)
	S3Endpoint       string
	S3Bucket         string
	S3Region         string
	S3AccessKey      string
	S3SecretKey      string
	BackupPassphrase string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		Host:     envString("CHORECHART_HOST", "0.0.0.0"),
		Port:     envString("CHORECHART_PORT", "5000"),
		DBPath:   envString("CHORECHART_DB_PATH", "chores.db"),
		Debug:    envBool("CHORECHART_DEBUG", false),
		LogLevel: envString("CHORECHART_LOG_LEVEL", "info"),
		Timezone: envString("CHORECHART_TIMEZONE", "Local"),
		Seed:     envBool("CHORECHART_SEED", true),

		SentryDSN: envString("CHORECHART_SENTRY_DSN", ""),

		UpdateRateLimit: envInt("CHORECHART_UPDATE_RATE_LIMIT", 120),

		S3Endpoint:       envString("CHORECHART_S3_ENDPOINT", ""),
		S3Bucket:         envString("CHORECHART_S3_BUCKET", ""),
		S3Region:         envString("CHORECHART_S3_REGION", "us-east-1"),
		S3AccessKey:      envString("CHORECHART_S3_ACCESS_KEY", ""),
		S3SecretKey:      envString("CHORECHART_S3_SECRET_KEY", ""),
		BackupPassphrase: envString("CHORECHART_BACKUP_PASSPHRASE", ""),
	}
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Level returns the effective log level. Debug mode always logs at debug.
func (c *Config) Level() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

// Location resolves Timezone. "Local" and "" mean the host's zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}
