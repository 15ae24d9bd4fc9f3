package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"recipe_backend/internal/feature/auth/domain"
	"recipe_backend/internal/feature/auth/domain/entity"
)

const (
	msgUserNotFound           = "User not found."
	msgEmailFixedForGoogle    = "Email cannot be changed for Google accounts."
	msgPasswordFieldsRequired = "Old and new passwords are required."
	msgNoPassword             = "This account has no password. Please sign in with Google."
	msgIncorrectOldPassword   = "Incorrect old password."
)

// ProfileUpdate lists the fields a user may change. Nil fields are left as they are.
type ProfileUpdate struct {
	Name           *string
	Email          *string
	ProfilePicture *string
}

// GetProfile returns the user behind an authenticated subject.
func (u *authUsecase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	return u.findUser(ctx, userID)
}

// UpdateProfile applies a validated profile update. Email changes are re-checked for
// uniqueness and are refused for Google accounts.
func (u *authUsecase) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	user, err := u.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if !validName(*upd.Name) {
			return nil, domain.Validation(msgNameTooShort)
		}
		user.Name = strings.TrimSpace(*upd.Name)
	}

	if upd.Email != nil {
		if user.IsFederated() {
			return nil, domain.Validation(msgEmailFixedForGoogle)
		}
		email := entity.NormalizeEmail(*upd.Email)
		if !validEmail(email) {
			return nil, domain.Validation(msgInvalidEmail)
		}
		if email != user.Email {
			if _, err := u.users.FindByEmail(ctx, email); err == nil {
				return nil, domain.Conflict(msgEmailInUse)
			} else if !errors.Is(err, ErrUserNotFound) {
				return nil, u.storeError("profile: find by email", err)
			}
			user.Email = email
		}
	}

	if upd.ProfilePicture != nil {
		user.ProfilePicture = strings.TrimSpace(*upd.ProfilePicture)
	}

	if err := u.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			return nil, domain.Conflict(msgEmailInUse)
		case errors.Is(err, ErrUserNotFound):
			return nil, domain.NotFound(msgUserNotFound)
		}
		return nil, u.storeError("profile: update", err)
	}
	return user, nil
}

// ChangePassword replaces the password of a Regular account after checking the old one.
func (u *authUsecase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.Validation(msgPasswordFieldsRequired)
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if !strongPassword(newPassword) {
		return domain.Validation(msgWeakPassword)
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	user, err := u.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return domain.Validation(msgNoPassword)
	}
	if !u.hasher.Verify(oldPassword, user.PasswordHash) {
		return domain.Auth(msgIncorrectOldPassword)
	}

	hash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := u.users.Update(ctx, user); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return domain.NotFound(msgUserNotFound)
		}
		return u.storeError("password: update", err)
	}
	u.logger.Info("password changed", zap.String("user_id", user.ID))
	return nil
}

// DeleteAccount removes the user record. Every refresh token of the user dies with it.
func (u *authUsecase) DeleteAccount(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	if err := u.tokens.Clear(ctx, userID); err != nil && !errors.Is(err, ErrUserNotFound) {
		return u.storeError("delete: clear tokens", err)
	}
	if err := u.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return domain.NotFound(msgUserNotFound)
		}
		return u.storeError("delete: user", err)
	}
	u.logger.Info("account deleted", zap.String("user_id", userID))
	return nil
}

func (u *authUsecase) findUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, domain.NotFound(msgUserNotFound)
		}
		return nil, u.storeError("find user", err)
	}
	return user, nil
}
