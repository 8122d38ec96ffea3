// Package config loads the server settings from the environment, optionally
// seeded from a .env file, and fills in defaults for unusable values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultPort           = "3000"
	defaultMaxMessageSize = 1 << 20
	defaultBurst          = 5
	defaultWindow         = time.Second
	defaultHistorySize    = 50
	defaultDBPath         = "./chat.db"
	defaultShutdown       = 10 * time.Second
	defaultBcryptCost     = 10
)

// RateLimitConfig defines the per-identity chat message rate limit.
type RateLimitConfig struct {
	Burst  int           `envconfig:"BURST" default:"5"`
	Window time.Duration `envconfig:"WINDOW" default:"1s"`
}

// Config holds the server configuration settings including security controls.
type Config struct {
	Port            string          `envconfig:"PORT" default:"3000"`
	AllowedOrigins  []string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	MaxMessageSize  int64           `envconfig:"MAX_MESSAGE_SIZE" default:"1048576"`
	RateLimit       RateLimitConfig `envconfig:"RATE_LIMIT"`
	HistorySize     int             `envconfig:"HISTORY_SIZE" default:"50"`
	DBPath          string          `envconfig:"DB_PATH" default:"./chat.db"`
	PublicDir       string          `envconfig:"PUBLIC_DIR" default:"./public"`
	LogLevel        string          `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration   `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	BcryptCost      int             `envconfig:"BCRYPT_COST" default:"10"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:           defaultPort,
		AllowedOrigins: []string{"http://localhost:3000"},
		MaxMessageSize: defaultMaxMessageSize,
		RateLimit: RateLimitConfig{
			Burst:  defaultBurst,
			Window: defaultWindow,
		},
		HistorySize:     defaultHistorySize,
		DBPath:          defaultDBPath,
		PublicDir:       "./public",
		LogLevel:        "info",
		ShutdownTimeout: defaultShutdown,
		BcryptCost:      defaultBcryptCost,
	}
}

// Load reads the given .env files (".env" when none are named) into the
// process environment without overriding variables already set, then
// decodes the environment. Missing .env files are ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	return Sanitize(cfg), nil
}

// Sanitize replaces empty or non-positive values with their defaults.
func Sanitize(cfg Config) Config {
	cfg.Port = strings.TrimPrefix(strings.TrimSpace(cfg.Port), ":")
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = defaultMaxMessageSize
	}

	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = defaultBurst
	}

	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = defaultWindow
	}

	if cfg.HistorySize <= 0 {
		cfg.HistorySize = defaultHistorySize
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdown
	}

	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = defaultBcryptCost
	}

	cfg.AllowedOrigins = parseOrigins(cfg.AllowedOrigins)
	return cfg
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Level maps LogLevel onto a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseOrigins(origins []string) []string {
	parts := make([]string, 0, len(origins))
	for _, origin := range origins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
