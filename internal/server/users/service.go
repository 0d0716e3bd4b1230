// Package users implements registration and login on top of a user
// Repository, a password Hasher and the session TokenService.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
)

// TokenIssuer mints session tokens for a subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// Service handles account registration and credential login:
//   - Register: validate input, hash the password, create the user
//   - Login: verify credentials and issue a session token
//
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	repo         Repository
	hasher       auth.Hasher
	tokens       TokenIssuer
	logger       logging.Logger
	validate     *validator.Validate
	storeTimeout time.Duration
	now          func() time.Time

	// dummyHash is compared against when the email is unknown so a login
	// for a missing user costs as much as one with a wrong password.
	dummyHash string
}

// NewService builds a Service. storeTimeout bounds every repository call.
func NewService(repo Repository, hasher auth.Hasher, tokens TokenIssuer, logger logging.Logger, storeTimeout time.Duration) (*Service, error) {
	if logger == nil {
		logger = logging.Nop{}
	}

	filler, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("generate dummy password: %w", err)
	}
	dummy, err := hasher.Hash(filler)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}

	return &Service{
		repo:         repo,
		hasher:       hasher,
		tokens:       tokens,
		logger:       logger.With("module", "users"),
		validate:     validator.New(),
		storeTimeout: storeTimeout,
		now:          time.Now,
		dummyHash:    dummy,
	}, nil
}

// Register creates a user. No token is issued; the caller logs in separately.
//
// Errors: common.ErrValidation for bad input, common.ErrAlreadyExists when the
// email is taken, common.ErrorInternal for store or hashing failures.
func (s *Service) Register(ctx context.Context, fullName, email, password string) (*User, error) {
	fullName = strings.TrimSpace(fullName)
	email = NormalizeEmail(email)

	if err := s.validateRegistration(fullName, email, password); err != nil {
		return nil, err
	}

	_, err := s.getByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	user := &User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.create(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		s.logger.Error(ctx, "user create failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "email", email)
	return user, nil
}

// Login checks the credentials and returns a signed session token.
//
// An unknown email and a wrong password both return
// common.ErrInvalidCredentials; only the log tells them apart.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	user, err := s.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.logger.Info(ctx, "login rejected", "reason", "unknown email")
			return "", common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Info(ctx, "login rejected", "reason", "password mismatch", "email", email)
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "error", err)
		return "", common.ErrorInternal
	}

	s.logger.Info(ctx, "user logged in", "email", email)
	return token, nil
}

// --- helpers below ---

func (s *Service) validateRegistration(fullName, email, password string) error {
	switch {
	case fullName == "" || email == "" || password == "":
		return fmt.Errorf("%w: fullName, email and password are required", common.ErrValidation)
	case s.validate.Var(email, "email") != nil:
		return fmt.Errorf("%w: email is not valid", common.ErrValidation)
	case len(password) > auth.MaxPasswordBytes:
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, auth.MaxPasswordBytes)
	}
	return nil
}

func (s *Service) getByEmail(ctx context.Context, email string) (*User, error) {
	return withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) (*User, error) {
		return s.repo.GetByEmail(ctx, email)
	})
}

func (s *Service) create(ctx context.Context, user *User) error {
	_, err := withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.repo.Create(ctx, user)
	})
	return err
}

// withStoreTimeout runs fn with a deadline and stops waiting once it passes.
// fn keeps running after that; Repository implementations must drop the
// write once ctx is done.
func withStoreTimeout[T any](ctx context.Context, d time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v: v, err: err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("user store: %w", ctx.Err())
	}
}
