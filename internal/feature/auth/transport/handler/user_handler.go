package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe_backend/internal/feature/auth/domain"
	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/auth/transport/http/dto"
	"recipe_backend/internal/feature/auth/usecase"
	jwtmw "recipe_backend/internal/platform/jwt"
)

const msgPasswordChanged = "Password updated successfully."

// ProfileUsecase defines the account operations used by UserHandler.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, upd usecase.ProfileUpdate) (*entity.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID string) error
}

// UserHandler serves the account endpoints. Every route except Public runs
// behind jwtmw.AuthRequired.
type UserHandler struct {
	profiles ProfileUsecase
	logger   *zap.Logger
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(profiles ProfileUsecase, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{profiles: profiles, logger: logger}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}
	user, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// UpdateMe handles PUT /users/me.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileReq
	if !bindBody(c, &req) {
		return
	}
	user, err := h.profiles.UpdateProfile(c.Request.Context(), userID, usecase.ProfileUpdate{
		Name:           req.Name,
		Email:          req.Email,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// ChangePassword handles PUT /users/me/password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordReq
	if !bindBody(c, &req) {
		return
	}
	if err := h.profiles.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: msgPasswordChanged})
}

// DeleteMe handles DELETE /users/me.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}
	h.deleteAccount(c, userID)
}

// Delete handles DELETE /users/:id. Ownership is enforced by jwtmw.RequireOwner
// with OwnerOf as the resolver.
func (h *UserHandler) Delete(c *gin.Context) {
	h.deleteAccount(c, c.Param("id"))
}

// Public handles GET /users/:id and shows the public part of a profile.
func (h *UserHandler) Public(c *gin.Context) {
	user, err := h.profiles.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPublicUserRes(user))
}

// OwnerOf resolves the owner of the account addressed by :id, which is the account itself.
func (h *UserHandler) OwnerOf(c *gin.Context) (string, error) {
	user, err := h.profiles.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", jwtmw.ErrResourceNotFound
		}
		return "", err
	}
	return user.ID, nil
}

func (h *UserHandler) deleteAccount(c *gin.Context, userID string) {
	if err := h.profiles.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) subject(c *gin.Context) (string, bool) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.MessageRes{Message: msgUnauthenticated})
	}
	return userID, ok
}
