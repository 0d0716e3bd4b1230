package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags applies command-line flags, the highest-precedence layer.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g. ":5000")
//	-s string     token signing secret
//	-t duration   token lifetime (e.g. "24h")
//	-i string     token issuer
//	-store string user store backend
//	-d string     database DSN
//	-r string     redis URL
//	-l string     log level
//
// Other arguments (-c, -env, anything unknown) are filtered out first so the
// layers do not collide.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-i", "-store", "-d", "-r", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Address, "a", config.Address, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "token lifetime")
	fs.StringVar(&config.Issuer, "i", config.Issuer, "token issuer")
	fs.StringVar(&config.Store, "store", config.Store, "user store: memory, postgres, sqlite, redis")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
