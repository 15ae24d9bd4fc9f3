package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recipe_backend/internal/feature/auth/domain"
	"recipe_backend/internal/feature/auth/domain/entity"
)

const (
	// DefaultTokenCapacity is the number of refresh tokens kept per user when not configured.
	DefaultTokenCapacity = 5
	// DefaultStoreTimeout bounds every store round trip made by a single operation.
	DefaultStoreTimeout = 5 * time.Second

	// dummyPasswordHash keeps the login path running a bcrypt comparison when the user
	// does not exist, so response timing does not reveal registered emails.
	dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

const (
	msgLoginFieldsRequired = "Email and password are required."
	msgInvalidCredentials  = "Invalid credentials."
	msgUseGoogleSignIn     = "This account was created with Google. Please sign in with Google."
	msgEmailInUse          = "Email already in use."
	msgRefreshRequired     = "Refresh token is required."
	msgRefreshInvalid      = "Invalid or expired refresh token. Please log in again."
	msgRefreshReused       = "Invalid refresh token. Please log in again."
)

// Config tunes session policy.
type Config struct {
	// TokenCapacity caps each user's refresh token set. Non-positive means unbounded.
	TokenCapacity int
	// StoreTimeout bounds the store work of one operation.
	StoreTimeout time.Duration
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Email          string
	Password       string
	Name           string
	ProfilePicture string
}

// TokenPair is a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is a token pair together with the user it was issued for.
type Session struct {
	TokenPair
	User *entity.User
}

// authUsecase implements registration, login, refresh and logout.
type authUsecase struct {
	users  UserRepository
	tokens RefreshTokenStore
	codec  TokenCodec
	hasher PasswordHasher
	logger *zap.Logger
	cfg    Config
}

// NewAuthUsecase creates a new instance of authUsecase.
func NewAuthUsecase(users UserRepository, tokens RefreshTokenStore, codec TokenCodec, hasher PasswordHasher, logger *zap.Logger, cfg Config) *authUsecase {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = DefaultStoreTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authUsecase{
		users:  users,
		tokens: tokens,
		codec:  codec,
		hasher: hasher,
		logger: logger,
		cfg:    cfg,
	}
}

// Register creates a Regular account and opens its first session.
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	email := entity.NormalizeEmail(in.Email)
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.Conflict(msgEmailInUse)
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, u.storeError("register: find by email", err)
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(in.Name),
		Email:          email,
		PasswordHash:   hash,
		Provider:       entity.ProviderRegular,
		ProfilePicture: strings.TrimSpace(in.ProfilePicture),
	}

	// Tokens are signed before anything is written so a missing secret persists nothing.
	pair, err := u.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, domain.Conflict(msgEmailInUse)
		}
		return nil, u.storeError("register: create user", err)
	}

	if err := u.tokens.Append(ctx, user.ID, pair.RefreshToken, u.cfg.TokenCapacity, nil); err != nil {
		u.rollbackUser(user.ID)
		return nil, u.storeError("register: store refresh token", err)
	}
	user.RefreshTokens = []string{pair.RefreshToken}

	u.logger.Info("user registered", zap.String("user_id", user.ID))
	return &Session{TokenPair: pair, User: user}, nil
}

// Login verifies email and password and opens a new session.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*Session, error) {
	email = entity.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Validation(msgLoginFieldsRequired)
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, u.storeError("login: find by email", err)
	}

	if user != nil && user.IsFederated() && !user.HasPassword() {
		return nil, domain.Validation(msgUseGoogleSignIn)
	}

	// Always compare against some hash so both failure branches cost the same.
	passwordHash := dummyPasswordHash
	if user != nil && user.HasPassword() {
		passwordHash = user.PasswordHash
	}
	match := u.hasher.Verify(password, passwordHash)
	if user == nil || !user.HasPassword() || !match {
		return nil, domain.Auth(msgInvalidCredentials)
	}

	return u.openSession(ctx, user)
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// single-use: it is removed in the same atomic step that stores its replacement.
// Presenting a token that is no longer in the set revokes every session of the user.
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, domain.Unauthorized(msgRefreshRequired)
	}

	claims, err := u.codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotConfigured) {
			return nil, u.configError(err)
		}
		return nil, domain.Forbidden(msgRefreshInvalid)
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	user, err := u.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, domain.Forbidden(msgRefreshInvalid)
		}
		return nil, u.storeError("refresh: find user", err)
	}

	pair, err := u.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	err = u.tokens.Rotate(ctx, user.ID, refreshToken, pair.RefreshToken, u.cfg.TokenCapacity)
	switch {
	case err == nil:
		return &pair, nil
	case errors.Is(err, ErrTokenNotMember):
		u.logger.Warn("refresh token reuse detected, revoking all sessions",
			zap.String("user_id", user.ID), zap.String("token_marker", claims.Marker))
		if err := u.tokens.Clear(ctx, user.ID); err != nil {
			return nil, u.storeError("refresh: revoke all sessions", err)
		}
		return nil, domain.Forbidden(msgRefreshReused)
	default:
		return nil, u.storeError("refresh: rotate token", err)
	}
}

// Logout removes the token from whichever user holds it. It succeeds whether or not
// the token was found.
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return domain.Validation(msgRefreshRequired)
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	if err := u.tokens.Remove(ctx, refreshToken); err != nil {
		return u.storeError("logout: remove token", err)
	}
	return nil
}

// openSession issues a pair for user, prunes stale tokens from the set and appends the
// new refresh token, evicting the oldest entries beyond capacity.
func (u *authUsecase) openSession(ctx context.Context, user *entity.User) (*Session, error) {
	pair, err := u.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	current, err := u.tokens.List(ctx, user.ID)
	if err != nil {
		return nil, u.storeError("session: list tokens", err)
	}
	var stale []string
	for _, t := range current {
		if _, err := u.codec.VerifyRefreshToken(t); err != nil {
			stale = append(stale, t)
		}
	}

	if err := u.tokens.Append(ctx, user.ID, pair.RefreshToken, u.cfg.TokenCapacity, stale); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, domain.Auth(msgInvalidCredentials)
		}
		return nil, u.storeError("session: append token", err)
	}
	user.RefreshTokens = entity.AppendToken(current, pair.RefreshToken, u.cfg.TokenCapacity, stale...)

	return &Session{TokenPair: pair, User: user}, nil
}

func (u *authUsecase) issuePair(userID string) (TokenPair, error) {
	access, err := u.codec.IssueAccessToken(userID)
	if err != nil {
		return TokenPair{}, u.configError(err)
	}
	refresh, err := u.codec.IssueRefreshToken(userID)
	if err != nil {
		return TokenPair{}, u.configError(err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// rollbackUser deletes a user whose first session could not be stored, so a failed
// registration leaves nothing behind.
func (u *authUsecase) rollbackUser(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), u.cfg.StoreTimeout)
	defer cancel()
	if err := u.users.Delete(ctx, id); err != nil && !errors.Is(err, ErrUserNotFound) {
		u.logger.Error("failed to roll back user after token store failure",
			zap.String("user_id", id), zap.Error(err))
	}
}

func (u *authUsecase) configError(err error) error {
	if errors.Is(err, domain.ErrSecretNotConfigured) {
		u.logger.Error("token secret is not configured", zap.Error(err))
		return domain.Configuration(err)
	}
	return fmt.Errorf("failed to sign token: %w", err)
}

func (u *authUsecase) storeError(op string, err error) error {
	u.logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return domain.Store(fmt.Errorf("%s: %w", op, err))
}
