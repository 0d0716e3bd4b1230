// Package auth holds the credential hasher, the session token service and
// the request identity carried between the access middleware and handlers.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Token verification failures. All of them wrap common.ErrInvalidToken and
// must be reported to clients as one generic "unauthorized".
var (
	ErrTokenMalformed    = fmt.Errorf("%w: malformed", common.ErrInvalidToken)
	ErrTokenBadSignature = fmt.Errorf("%w: bad signature", common.ErrInvalidToken)
	ErrTokenExpired      = fmt.Errorf("%w: expired", common.ErrInvalidToken)
)

// Claims is the payload of a session token. The subject is the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens. It holds no mutable
// state after construction and is safe for concurrent use.
//
// Tokens cannot be revoked before they expire, and anyone holding the secret
// can mint valid tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService returns a TokenService signing with secret. An empty
// secret or a non-positive ttl is a configuration error.
func NewTokenService(secret []byte, ttl time.Duration, issuer string) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty token secret", common.ErrConfig)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: token ttl must be positive", common.ErrConfig)
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenService{secret: key, ttl: ttl, issuer: issuer, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue creates a signed token for subject valid for the configured TTL.
func (s *TokenService) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is empty")
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature, expiry and issuer and returns the
// identity it was issued for.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) && onlySignatureUndecodable(tokenString) {
			return nil, ErrTokenBadSignature
		}
		return nil, classify(err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}

	return &Identity{Email: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenBadSignature
	default:
		return ErrTokenMalformed
	}
}

// onlySignatureUndecodable reports whether header and claims are valid
// base64url but the signature is not under strict decoding, e.g. when a
// signature character was changed in its padding bits.
func onlySignatureUndecodable(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	enc := base64.RawURLEncoding.Strict()
	for _, p := range parts[:2] {
		if _, err := enc.DecodeString(p); err != nil {
			return false
		}
	}
	_, err := enc.DecodeString(parts[2])
	return err != nil
}
