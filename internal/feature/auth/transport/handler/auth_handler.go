// Package handler provides the HTTP handlers of the auth feature.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe_backend/internal/feature/auth/transport/http/dto"
	"recipe_backend/internal/feature/auth/usecase"
)

// AuthUsecase defines the session operations used by the handlers.
// Following Go convention, the consumer (handler) defines the interface, not the provider.
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.Session, error)
	Login(ctx context.Context, email, password string) (*usecase.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	SignInWithGoogle(ctx context.Context, identity usecase.GoogleIdentity) (*usecase.Session, error)
}

// AuthHandler handles the register, login, refresh and logout endpoints.
type AuthHandler struct {
	auth   AuthUsecase
	logger *zap.Logger
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(auth AuthUsecase, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: auth, logger: logger}
}

// Register handles POST /auth/register. It accepts JSON or form bodies and
// responds 201 with the session on success.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if !bindBody(c, &req) {
		return
	}
	session, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newAuthRes(session))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if !bindBody(c, &req) {
		return
	}
	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newAuthRes(session))
}

// Refresh handles POST /auth/refresh and returns a rotated token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshReq
	if !bindBody(c, &req) {
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenRes{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Logout handles POST /auth/logout. It responds 204 whether or not the token was known.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshReq
	if !bindBody(c, &req) {
		return
	}
	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func newAuthRes(s *usecase.Session) dto.AuthRes {
	return dto.AuthRes{
		TokenRes: dto.TokenRes{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken},
		User:     dto.NewUserRes(s.User),
	}
}
