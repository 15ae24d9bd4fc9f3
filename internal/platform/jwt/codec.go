// Package jwtmw issues and verifies the HS256 bearer tokens of the auth feature
// and provides the Gin middleware that authenticates requests with them.
package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"recipe_backend/internal/feature/auth/domain"
	"recipe_backend/internal/feature/auth/usecase"
)

const (
	// DefaultAccessTTL is the lifetime of an access token when not configured.
	DefaultAccessTTL = 15 * time.Minute
	// DefaultRefreshTTL is the lifetime of a refresh token when not configured.
	DefaultRefreshTTL = 7 * 24 * time.Hour

	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Config holds the two independent signing secrets and token lifetimes.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Claims is the payload of both token classes. Type keeps an access token from
// being accepted where a refresh token is expected, even if the secrets are equal.
type Claims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access and refresh tokens.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

var _ usecase.TokenCodec = (*Codec)(nil)

// NewCodec creates a Codec. Missing secrets are not rejected here: every issue or
// verify call that needs one fails with domain.ErrSecretNotConfigured instead.
func NewCodec(cfg Config) *Codec {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// IssueAccessToken signs a short-lived token for userID with the access secret.
func (c *Codec) IssueAccessToken(userID string) (string, error) {
	return c.issue(userID, typeAccess, c.accessSecret, c.accessTTL)
}

// IssueRefreshToken signs a long-lived token for userID with the refresh secret.
func (c *Codec) IssueRefreshToken(userID string) (string, error) {
	return c.issue(userID, typeRefresh, c.refreshSecret, c.refreshTTL)
}

// VerifyAccessToken checks a token against the access secret only.
func (c *Codec) VerifyAccessToken(token string) (usecase.TokenClaims, error) {
	return c.verify(token, typeAccess, c.accessSecret)
}

// VerifyRefreshToken checks a token against the refresh secret only.
func (c *Codec) VerifyRefreshToken(token string) (usecase.TokenClaims, error) {
	return c.verify(token, typeRefresh, c.refreshSecret)
}

func (c *Codec) issue(userID, typ string, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", domain.ErrSecretNotConfigured
	}
	now := c.now()
	claims := Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (c *Codec) verify(tokenStr, typ string, secret []byte) (usecase.TokenClaims, error) {
	if len(secret) == 0 {
		return usecase.TokenClaims{}, domain.ErrSecretNotConfigured
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return usecase.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Type != typ || claims.Subject == "" {
		return usecase.TokenClaims{}, domain.ErrTokenInvalid
	}

	return usecase.TokenClaims{Subject: claims.Subject, Marker: claims.ID}, nil
}
