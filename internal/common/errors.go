// Package common defines shared constants, sentinel errors and small helpers
// used across the server and client. Callers should use errors.Is to match
// the sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Auth errors. Concrete token failures wrap ErrInvalidToken.
	ErrInvalidToken = errors.New("invalid token")

	// Startup errors. The process must not start when one of these is returned.
	ErrConfig = errors.New("configuration error")
)
