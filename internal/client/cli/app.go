package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
)

type App struct {
	config  *config.Config
	api     client.Client
	reader  *bufio.Reader
	out     io.Writer
	email   string
	session *client.Session
	now     func() time.Time
}

// NewApp builds an App reading from stdin and writing to stdout.
func NewApp(c *config.Config) *App {
	return newApp(c, client.NewHTTPClient(c.ServerURL, c.RequestTimeout), os.Stdin, os.Stdout)
}

func newApp(c *config.Config, api client.Client, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    api,
		reader: bufio.NewReader(in),
		out:    out,
		now:    time.Now,
	}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

// isLoggedIn reports whether a session token is held and not yet expired.
func (a *App) isLoggedIn() bool {
	if a.session == nil {
		return false
	}
	if !a.session.ExpiresAt.IsZero() && !a.now().Before(a.session.ExpiresAt) {
		a.clearSession()
		return false
	}
	return true
}

func (a *App) clearSession() {
	a.session = nil
	a.email = ""
}
