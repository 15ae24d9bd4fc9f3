package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe_backend/internal/feature/auth/transport/http/dto"
	"recipe_backend/internal/feature/auth/usecase"
	"recipe_backend/internal/platform/google"
)

const (
	stateCookie       = "oauth_state"
	stateCookiePath   = "/auth/google"
	stateCookieMaxAge = 600

	msgCredentialRequired = "Google credential is required."
	msgInvalidGoogle      = "Invalid Google credential."
	msgGoogleDisabled     = "Google sign-in is not configured."
	msgInvalidState       = "Invalid OAuth state."
	msgGoogleUnavailable  = "Failed to reach Google. Please try again."
)

// IDTokenVerifier verifies a Google Sign-In credential.
type IDTokenVerifier interface {
	Verify(ctx context.Context, credential string) (google.Identity, error)
}

// OAuthFlow runs the Google authorization code flow.
type OAuthFlow interface {
	Configured() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (google.Identity, error)
}

// GoogleHandler turns a verified Google identity into a session.
type GoogleHandler struct {
	auth          AuthUsecase
	verifier      IDTokenVerifier
	oauth         OAuthFlow
	secureCookies bool
	logger        *zap.Logger
}

// NewGoogleHandler creates a new instance of GoogleHandler.
func NewGoogleHandler(auth AuthUsecase, verifier IDTokenVerifier, oauth OAuthFlow, secureCookies bool, logger *zap.Logger) *GoogleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleHandler{
		auth:          auth,
		verifier:      verifier,
		oauth:         oauth,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// SignIn handles POST /auth/google-signin with a Google Sign-In ID token.
func (h *GoogleHandler) SignIn(c *gin.Context) {
	var req dto.GoogleSigninReq
	if !bindBody(c, &req) {
		return
	}
	if req.Credential == "" {
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: msgCredentialRequired})
		return
	}

	identity, err := h.verifier.Verify(c.Request.Context(), req.Credential)
	if err != nil {
		h.respondGoogleError(c, err)
		return
	}
	h.signIn(c, identity)
}

// Start handles GET /auth/google. It stores a fresh state in a short-lived cookie
// and redirects to Google's consent page.
func (h *GoogleHandler) Start(c *gin.Context) {
	if !h.oauth.Configured() {
		h.respondGoogleError(c, google.ErrNotConfigured)
		return
	}
	state, err := google.NewState()
	if err != nil {
		h.logger.Error("failed to generate oauth state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageRes{Message: msgInternal})
		return
	}
	h.setStateCookie(c, state, stateCookieMaxAge)
	c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state))
}

// Callback handles GET /auth/google/callback.
func (h *GoogleHandler) Callback(c *gin.Context) {
	issued, _ := c.Cookie(stateCookie)
	h.setStateCookie(c, "", -1)

	if err := google.CheckState(issued, c.Query("state")); err != nil {
		h.logger.Debug("oauth state mismatch", zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: msgInvalidState})
		return
	}
	if reason := c.Query("error"); reason != "" {
		h.logger.Debug("google consent denied", zap.String("reason", reason))
		c.JSON(http.StatusUnauthorized, dto.MessageRes{Message: msgInvalidGoogle})
		return
	}

	identity, err := h.oauth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.respondGoogleError(c, err)
		return
	}
	h.signIn(c, identity)
}

func (h *GoogleHandler) signIn(c *gin.Context, identity google.Identity) {
	session, err := h.auth.SignInWithGoogle(c.Request.Context(), usecase.GoogleIdentity{
		Email:       identity.Email,
		DisplayName: identity.Name,
		PictureURL:  identity.Picture,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newAuthRes(session))
}

func (h *GoogleHandler) respondGoogleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, google.ErrNotConfigured):
		h.logger.Error("google sign-in requested but not configured")
		c.JSON(http.StatusInternalServerError, dto.MessageRes{Message: msgGoogleDisabled})
	case errors.Is(err, google.ErrInvalidCredential),
		errors.Is(err, google.ErrUnverifiedEmail),
		errors.Is(err, google.ErrInvalidCode):
		h.logger.Debug("google credential rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, dto.MessageRes{Message: msgInvalidGoogle})
	case errors.Is(err, google.ErrUserInfoFailed):
		h.logger.Warn("google userinfo request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, dto.MessageRes{Message: msgGoogleUnavailable})
	default:
		h.logger.Error("google sign-in failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageRes{Message: msgInternal})
	}
}

func (h *GoogleHandler) setStateCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, value, maxAge, stateCookiePath, "", h.secureCookies, true)
}
