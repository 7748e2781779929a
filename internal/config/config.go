// Package config reads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Port string

	Backend          string // memory, sqlite or postgres
	SQLitePath       string
	DatabaseURL      string
	MemoryQuotaBytes int // 0 means unlimited

	MetricsToken string

	Location            *time.Location // receipts, hand-off messages, stats
	CheckoutLimitPerMin int
	LogLevel            zapcore.Level
}

// LoadDotEnv reads path into the environment if it exists. Variables that
// are already set win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load() (Config, error) {
	cfg := Config{
		Port:         getenv("PORT", "8080"),
		Backend:      strings.ToLower(getenv("STORE_BACKEND", BackendSQLite)),
		SQLitePath:   getenv("SQLITE_PATH", "foodexpress.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		MetricsToken: os.Getenv("METRICS_TOKEN"),
	}

	var err error
	if cfg.MemoryQuotaBytes, err = atoi("MEMORY_QUOTA_BYTES", 0); err != nil {
		return Config{}, err
	}
	if cfg.CheckoutLimitPerMin, err = atoi("CHECKOUT_LIMIT_PER_MIN", 10); err != nil {
		return Config{}, err
	}
	if cfg.CheckoutLimitPerMin < 1 {
		return Config{}, fmt.Errorf("CHECKOUT_LIMIT_PER_MIN must be positive")
	}

	tz := getenv("TIMEZONE", "Asia/Ho_Chi_Minh")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return Config{}, fmt.Errorf("TIMEZONE %q: %w", tz, err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	switch cfg.Backend {
	case BackendMemory:
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return Config{}, fmt.Errorf("SQLITE_PATH is required")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND must be memory, sqlite or postgres, got %q", cfg.Backend)
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
