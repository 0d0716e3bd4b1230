package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// errNotLoggedIn is returned by commands that need a session.
var errNotLoggedIn = errors.New("not logged in, use 'login' first")

// Register prompts for a full name, email and password and creates the
// account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Register(ctx, fullName, email, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registered. You can login now.")
	return nil
}

// Login prompts for credentials and keeps the returned session token in
// memory only.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	session, err := a.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return errors.New("invalid email or password")
		}
		return err
	}

	a.session = session
	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Profile fetches the protected profile. A 401 means the token is no
// longer accepted, so the session is dropped.
func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	p, err := a.api.Profile(ctx, a.session.Token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.clearSession()
			return errors.New("session is no longer valid, please login again")
		}
		return err
	}

	fmt.Fprintln(a.out, p.Message)
	return nil
}

// Logout forgets the session token. Tokens are not revocable server-side,
// so this only affects the client.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	a.clearSession()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
