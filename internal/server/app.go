// Package server wires the auth service together: it opens the configured
// user store, builds the hasher and the token service, and serves the HTTP
// API until the process is told to stop.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpapi"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager *repomanager.Manager
	server  *httpapi.Server
}

// NewApp builds every component from c. Logs go to stdout.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(logOut, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	for _, w := range c.Warnings() {
		logger.Warn(ctx, "config warning", "warning", w)
	}

	tokens, err := auth.NewTokenService([]byte(c.SecretKey), c.TokenTTL, c.Issuer)
	if err != nil {
		return nil, err
	}

	rm, err := repomanager.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	us, err := users.NewService(rm.Users(), auth.NewBcryptHasher(auth.DefaultHashCost), tokens, logger, c.StoreTimeout)
	if err != nil {
		_ = rm.Close()
		return nil, err
	}

	gin.SetMode(c.GinMode)

	h := httpapi.NewHandler(us, tokens.TTL(), logger)
	srv := httpapi.NewServer(httpapi.Options{
		Address:         c.Address,
		ShutdownTimeout: c.ShutdownTimeout,
		AllowedOrigins:  c.CORSAllowedOrigins,
	}, h, tokens, logger)

	return &App{config: c, logger: logger, manager: rm, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
	}
	return err
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// shuts the server down and closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.Store)

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "store close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")

	return runErr
}
