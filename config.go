package session

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// Config is loaded from environment variables using the
// github.com/caarlos0/env library. A local .env file is picked up when
// present, which is how development installs point at a staging backend.
type Config struct {
	// BaseURL is the root of the remote REST API.
	BaseURL string `env:"SESSION_API_URL" envDefault:"https://api.tradeflow.app"`

	// HTTPTimeout bounds every backend call. Timeouts surface as ordinary
	// retryable transport failures.
	HTTPTimeout time.Duration `env:"SESSION_HTTP_TIMEOUT" envDefault:"10s"`

	// Store selects and parameterizes the token store backing.
	Store StoreConfig `envPrefix:"SESSION_STORE_"`
}

// StoreConfig picks the TokenStore implementation for this installation.
type StoreConfig struct {
	// Kind is one of memory, file, redis, sqlite.
	Kind string `env:"KIND" envDefault:"file"`

	// Path is the session file location for the file store.
	Path string `env:"PATH" envDefault:".tradeflow/session.json"`

	// RedisAddr and RedisDB configure the redis store.
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// DSN is the sqlite database for the bun store.
	DSN string `env:"SQLITE_DSN" envDefault:"file:tradeflow.db"`
}

// Store kinds accepted by StoreConfig.Kind.
const (
	StoreKindMemory = "memory"
	StoreKindFile   = "file"
	StoreKindRedis  = "redis"
	StoreKindSQLite = "sqlite"
)

// LoadConfig reads configuration from the environment, after loading a
// .env file if one exists.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, errors.CategoryBadInput, "failed to parse session config from env")
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *Config) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	c.Store.Sanitize()
}

// Sanitize normalizes the store selection, falling back to the file store
// for unrecognized kinds.
func (s *StoreConfig) Sanitize() {
	s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
	switch s.Kind {
	case StoreKindMemory, StoreKindFile, StoreKindRedis, StoreKindSQLite:
	default:
		s.Kind = StoreKindFile
	}
}
