package users

import (
	"context"
)

// Repository is the user store the Service relies on.
//
// GetByEmail returns common.ErrorNotFound when no user has that email.
// Create must be atomic on the email: when the email is already taken it
// returns common.ErrAlreadyExists and leaves the existing record untouched,
// including when several Creates race.
//
// Both must honour ctx. The Service stops waiting once its store timeout
// passes, so a Create whose ctx is already done must not write the user;
// a caller that saw a timeout may retry.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
}
