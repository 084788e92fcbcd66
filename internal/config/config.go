// Package config loads server settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"battlecode-client/pkg/logger"
)

// Config holds the server settings.
type Config struct {
	Port           int           // HTTP listen port
	DBDriver       string        // "sqlite" or "postgres"
	DBPath         string        // sqlite file
	DatabaseURL    string        // postgres connection string
	ScaffoldPath   string        // engine scaffold the runner invokes
	StreamInterval time.Duration // pause between streamed replay events
	MaxUploadMB    int           // largest accepted replay or map upload
	GinMode        string        // gin mode: debug, release or test
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		Port:           30000,
		DBDriver:       "sqlite",
		DBPath:         "data/battlecode.db",
		ScaffoldPath:   "../battlecode23-scaffold",
		StreamInterval: 50 * time.Millisecond,
		MaxUploadMB:    64,
		GinMode:        "release",
	}
}

// Load reads a .env file if one exists, then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		logger.Log.WithError(err).Debug(".env file not loaded")
	}
	return FromEnv()
}

// FromEnv reads settings from the environment over the defaults.
func FromEnv() (Config, error) {
	cfg := Defaults()
	var err error

	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return cfg, err
	}
	cfg.DBDriver = envString("DB_DRIVER", cfg.DBDriver)
	cfg.DBPath = envString("DB_PATH", cfg.DBPath)
	cfg.DatabaseURL = envString("DATABASE_URL", cfg.DatabaseURL)
	cfg.ScaffoldPath = envString("SCAFFOLD_PATH", cfg.ScaffoldPath)
	cfg.GinMode = envString("GIN_MODE", cfg.GinMode)

	ms, err := envInt("STREAM_INTERVAL_MS", int(cfg.StreamInterval/time.Millisecond))
	if err != nil {
		return cfg, err
	}
	cfg.StreamInterval = time.Duration(ms) * time.Millisecond
	if cfg.MaxUploadMB, err = envInt("MAX_UPLOAD_MB", cfg.MaxUploadMB); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks that the settings can be used.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for sqlite")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.StreamInterval < 0 {
		return fmt.Errorf("STREAM_INTERVAL_MS must not be negative")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
