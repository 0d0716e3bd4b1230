package client

import (
	"context"
	"time"
)

// Session is the result of a successful login.
type Session struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// Profile is the protected resource returned for a valid session.
type Profile struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type Client interface {
	Register(ctx context.Context, fullName, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) (*Session, error)
	Profile(ctx context.Context, token string) (*Profile, error)
	Ping(ctx context.Context) error
}
