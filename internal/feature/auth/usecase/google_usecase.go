package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recipe_backend/internal/feature/auth/domain"
	"recipe_backend/internal/feature/auth/domain/entity"
)

const (
	msgGoogleNoEmail       = "Google account has no email address."
	msgRegisteredWithEmail = "This email is already registered. Please log in with your password."
)

// GoogleIdentity is an identity assertion that has already been verified against Google.
type GoogleIdentity struct {
	Email       string
	DisplayName string
	PictureURL  string
}

// SignInWithGoogle finds or creates the Google account for identity and opens a session.
// A Regular account with the same email is never converted or merged.
func (u *authUsecase) SignInWithGoogle(ctx context.Context, identity GoogleIdentity) (*Session, error) {
	email := entity.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, domain.Validation(msgGoogleNoEmail)
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	user, err := u.reconcileGoogleUser(ctx, email, identity)
	if errors.Is(err, ErrEmailAlreadyExists) {
		// Lost a creation race with a concurrent sign-in; the record exists now.
		user, err = u.reconcileGoogleUser(ctx, email, identity)
	}
	if errors.Is(err, ErrEmailAlreadyExists) {
		return nil, domain.Conflict(msgEmailInUse)
	}
	if err != nil {
		return nil, err
	}

	return u.openSession(ctx, user)
}

func (u *authUsecase) reconcileGoogleUser(ctx context.Context, email string, identity GoogleIdentity) (*entity.User, error) {
	picture := strings.TrimSpace(identity.PictureURL)

	user, err := u.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !user.IsFederated() {
			return nil, domain.Validation(msgRegisteredWithEmail)
		}
		if user.ProfilePicture == "" && picture != "" {
			user.ProfilePicture = picture
			if err := u.users.Update(ctx, user); err != nil {
				return nil, u.storeError("google: backfill picture", err)
			}
		}
		return user, nil
	case !errors.Is(err, ErrUserNotFound):
		return nil, u.storeError("google: find by email", err)
	}

	name := strings.TrimSpace(identity.DisplayName)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	user = &entity.User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		Provider:       entity.ProviderGoogle,
		ProfilePicture: picture,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, u.storeError("google: create user", err)
	}
	u.logger.Info("google user created", zap.String("user_id", user.ID))
	return user, nil
}
