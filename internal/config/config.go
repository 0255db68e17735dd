// Package config loads server configuration from WEDPLAN_* environment
// variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/securecookie"
)

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage backends
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Session store backends
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// MinSessionSecretLength is the shortest accepted session secret
const MinSessionSecretLength = 32

// Config is the full server configuration
type Config struct {
	Port int    `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST"`
	Env  string `env:"ENV" envDefault:"development"`

	Storage string `env:"STORAGE" envDefault:"sqlite"`
	DBPath  string `env:"DB_PATH" envDefault:"wedplan.db"`

	SessionStore       string        `env:"SESSION_STORE" envDefault:"memory"`
	RedisURL           string        `env:"REDIS_URL"`
	SessionSecret      string        `env:"SESSION_SECRET"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	SessionMaxLifetime time.Duration `env:"SESSION_MAX_LIFETIME" envDefault:"720h"`

	AdminPassword string `env:"ADMIN_PASSWORD"`

	PINHasher string `env:"PIN_HASHER" envDefault:"sha256"`
	PINPepper string `env:"PIN_PEPPER"`

	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"ko"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// SessionSecretGenerated is set when Load created an ephemeral secret
	SessionSecretGenerated bool `env:"-"`
}

// Load reads configuration from the process environment
func Load() (Config, error) {
	return load(env.Options{Prefix: "WEDPLAN_"})
}

// LoadFrom reads configuration from the given variables instead of the
// process environment
func LoadFrom(environ map[string]string) (Config, error) {
	return load(env.Options{Prefix: "WEDPLAN_", Environment: environ})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	cfg.PINHasher = strings.ToLower(strings.TrimSpace(cfg.PINHasher))

	if cfg.SessionSecret == "" && cfg.Env == EnvDevelopment {
		cfg.SessionSecret = hex.EncodeToString(securecookie.GenerateRandomKey(MinSessionSecretLength))
		cfg.SessionSecretGenerated = true
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects inconsistent settings
func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("WEDPLAN_PORT must be 1-65535, got %d", c.Port))
	}
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("WEDPLAN_ENV must be %s or %s, got %q", EnvDevelopment, EnvProduction, c.Env))
	}
	switch c.Storage {
	case StorageSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			errs = append(errs, errors.New("WEDPLAN_DB_PATH is required for sqlite storage"))
		} else if strings.ContainsAny(c.DBPath, "?#") {
			errs = append(errs, fmt.Errorf("WEDPLAN_DB_PATH must not contain '?' or '#', got %q", c.DBPath))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("WEDPLAN_STORAGE must be %s or %s, got %q", StorageSQLite, StorageMemory, c.Storage))
	}
	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("WEDPLAN_REDIS_URL is required for the redis session store"))
		}
	default:
		errs = append(errs, fmt.Errorf("WEDPLAN_SESSION_STORE must be %s or %s, got %q", SessionStoreMemory, SessionStoreRedis, c.SessionStore))
	}
	if len(c.SessionSecret) < MinSessionSecretLength {
		errs = append(errs, fmt.Errorf("WEDPLAN_SESSION_SECRET must be at least %d characters", MinSessionSecretLength))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("WEDPLAN_SESSION_TTL must be positive"))
	}
	if c.SessionMaxLifetime < 0 {
		errs = append(errs, errors.New("WEDPLAN_SESSION_MAX_LIFETIME must not be negative"))
	}
	switch c.PINHasher {
	case "sha256":
	case "argon2":
		if c.PINPepper == "" {
			errs = append(errs, errors.New("WEDPLAN_PIN_PEPPER is required for the argon2 hasher"))
		}
	default:
		errs = append(errs, fmt.Errorf("WEDPLAN_PIN_HASHER must be sha256 or argon2, got %q", c.PINHasher))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("WEDPLAN_LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether cookies should be marked Secure
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// SlogLevel parses LogLevel
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("WEDPLAN_LOG_LEVEL: %w", err)
	}
	return level, nil
}
