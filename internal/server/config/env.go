package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// defaultEnvFile is read when present; -env points at a different file.
const defaultEnvFile = ".env"

// parseEnv overlays values from a .env file and the process environment.
// Real environment variables win over the file.
//
//	ADDRESS                full bind address (":5000")
//	PORT                   port only, used when ADDRESS is unset
//	JWT_SECRET             token signing secret
//	TOKEN_TTL              token lifetime ("24h")
//	TOKEN_ISSUER           "iss" claim
//	STORE                  memory | postgres | sqlite | redis
//	DATABASE_DSN           postgres or sqlite DSN
//	REDIS_URL              redis://host:port/db
//	STORE_TIMEOUT          per-call store timeout ("5s")
//	SHUTDOWN_TIMEOUT       graceful shutdown budget ("10s")
//	CORS_ALLOWED_ORIGINS   comma separated origins
//	GIN_MODE               debug | release | test
//	LOG_LEVEL              debug | info | warn | error
func parseEnv(config *Config, args []string) error {
	path := flagx.Lookup(args, "-env")
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	fileVars, err := godotenv.Read(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read env file %s: %w", path, err)
		}
		fileVars = map[string]string{}
	}

	get := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVars[key]
	}

	if port := get("PORT"); port != "" {
		config.Address = ":" + strings.TrimPrefix(port, ":")
	}
	setString(&config.Address, get("ADDRESS"))
	setString(&config.SecretKey, get("JWT_SECRET"))
	setString(&config.Issuer, get("TOKEN_ISSUER"))
	setString(&config.Store, get("STORE"))
	setString(&config.DatabaseDSN, get("DATABASE_DSN"))
	setString(&config.RedisURL, get("REDIS_URL"))
	setString(&config.GinMode, get("GIN_MODE"))
	setString(&config.LogLevel, get("LOG_LEVEL"))

	if err := setDuration(&config.TokenTTL, "TOKEN_TTL", get("TOKEN_TTL")); err != nil {
		return err
	}
	if err := setDuration(&config.StoreTimeout, "STORE_TIMEOUT", get("STORE_TIMEOUT")); err != nil {
		return err
	}
	if err := setDuration(&config.ShutdownTimeout, "SHUTDOWN_TIMEOUT", get("SHUTDOWN_TIMEOUT")); err != nil {
		return err
	}

	if origins := get("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.CORSAllowedOrigins = splitList(origins)
	}

	return nil
}

func setDuration(dst *time.Duration, key, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
