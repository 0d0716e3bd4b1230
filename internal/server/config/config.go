// Package config handles configuration for the server component: built-in
// defaults, an optional JSON file, a .env file plus the process environment,
// and finally command-line flags. Later sources take precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Supported user store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
)

// minSecretLen is the HS256 key size below which the server logs a warning.
const minSecretLen = 32

// Config holds runtime settings for the auth server.
//
// Fields:
//   - Address: HTTP bind address, e.g. ":5000".
//   - SecretKey: HMAC secret used to sign session tokens. Required, no default.
//   - TokenTTL: lifetime of an issued token.
//   - Issuer: "iss" claim written into and required from tokens.
//   - Store: user store backend, one of memory, postgres, sqlite, redis.
//   - DatabaseDSN: DSN for the postgres (pgx) or sqlite backend.
//   - RedisURL: redis:// URL for the redis backend.
//   - StoreTimeout: upper bound for a single store call.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
//   - CORSAllowedOrigins: origins allowed by the CORS middleware.
type Config struct {
	Address            string
	SecretKey          string
	TokenTTL           time.Duration
	Issuer             string
	Store              string
	DatabaseDSN        string
	RedisURL           string
	StoreTimeout       time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string
	GinMode            string
	LogLevel           string
}

// LoadDefaults populates Config with development defaults. SecretKey is
// deliberately left empty: the server refuses to start without one.
func (c *Config) LoadDefaults() {
	c.Address = ":5000"
	c.SecretKey = ""
	c.TokenTTL = 24 * time.Hour
	c.Issuer = "gophauth"
	c.Store = StoreMemory
	c.DatabaseDSN = ""
	c.RedisURL = ""
	c.StoreTimeout = 5 * time.Second
	c.ShutdownTimeout = 10 * time.Second
	c.CORSAllowedOrigins = []string{"*"}
	c.GinMode = "release"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from os.Args and the environment and validates
// it. Any returned error wraps common.ErrConfig.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfig, err)
	}
	if err := parseEnv(cfg, args); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfig, err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot safely run with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("%w: secret key is required (JWT_SECRET or -s)", common.ErrConfig)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: token ttl must be positive, got %s", common.ErrConfig, c.TokenTTL)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("%w: store timeout must be positive, got %s", common.ErrConfig, c.StoreTimeout)
	}
	if c.Address == "" {
		return fmt.Errorf("%w: listen address is required", common.ErrConfig)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("%w: gin mode must be debug, release or test, got %q", common.ErrConfig, c.GinMode)
	}
	for _, o := range c.CORSAllowedOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("%w: cors origin %q must be \"*\" or start with http:// or https://", common.ErrConfig, o)
		}
	}

	switch c.Store {
	case StoreMemory:
	case StorePostgres, StoreSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("%w: database dsn is required for store %q", common.ErrConfig, c.Store)
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: redis url is required for store %q", common.ErrConfig, c.Store)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", common.ErrConfig, c.Store)
	}

	return nil
}

// Warnings lists settings that are accepted but weak.
func (c *Config) Warnings() []string {
	var w []string
	if len(c.SecretKey) < minSecretLen {
		w = append(w, fmt.Sprintf("secret key is shorter than %d bytes", minSecretLen))
	}
	if c.Store == StoreMemory {
		w = append(w, "memory store in use, users are lost on restart")
	}
	return w
}
