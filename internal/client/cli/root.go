package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s)", a.email)
}

// Root greets the user, checks that the server answers and runs the REPL.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to gophauth CLI (type 'help' for commands)")

	pingCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	if err := a.api.Ping(pingCtx); err != nil {
		fmt.Fprintf(a.out, "Warning: server %s is not reachable: %v\n", a.config.ServerURL, err)
	}
	cancel()

	runREPL(ctx, a, a.getStatus, a.reader)
}
