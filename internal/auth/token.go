// Package auth issues and verifies the short-lived bearer tokens that gate
// the merge endpoint.
package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hybrid-image-service/internal/config"
	"hybrid-image-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator checks the shared secret and signs/verifies HS256 tokens.
type Authenticator struct {
	password []byte
	key      []byte
	ttl      time.Duration
	now      func() time.Time
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// New creates an Authenticator from cfg.
func New(cfg *config.Config, opts ...Option) *Authenticator {
	a := &Authenticator{
		password: []byte(cfg.Password),
		key:      []byte(cfg.SecretKey),
		ttl:      cfg.TokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TTL returns the validity window of issued tokens.
func (a *Authenticator) TTL() time.Duration { return a.ttl }

// Issue returns a signed token when password matches the shared secret.
func (a *Authenticator) Issue(password string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(password), a.password) != 1 {
		return "", time.Time{}, fmt.Errorf("%w: invalid password", models.ErrAuth)
	}

	now := a.now().Truncate(time.Second)
	exp := now.Add(a.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString(a.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: sign token: %v", models.ErrInternal, err)
	}
	return signed, exp, nil
}

// Verify accepts only unexpired HS256 tokens signed with the configured key.
func (a *Authenticator) Verify(token string) error {
	_, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return a.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrAuth, err)
	}
	return nil
}

// BearerToken extracts the credential from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
