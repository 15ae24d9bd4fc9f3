package jwtmw

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/feature/auth/domain"
	"recipe_backend/internal/feature/auth/usecase"
)

// ContextUserID is the gin context key holding the authenticated subject.
const ContextUserID = "userID"

const (
	msgNoToken       = "Access denied. No token provided."
	msgInvalidToken  = "Invalid or expired token."
	msgMisconfigured = "Server configuration error."
)

// AccessVerifier verifies access tokens.
type AccessVerifier interface {
	VerifyAccessToken(token string) (usecase.TokenClaims, error)
}

// AuthRequired returns a Gin middleware function that validates access tokens
// and restricts access to authenticated users only. It never consults the store.
func AuthRequired(verifier AccessVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(auth, "Bearer ")
		tokenStr = strings.TrimSpace(tokenStr)
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgNoToken})
			return
		}

		// 2. Verify signature, expiry and token class
		claims, err := verifier.VerifyAccessToken(tokenStr)
		if err != nil {
			if errors.Is(err, domain.ErrSecretNotConfigured) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgMisconfigured})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgInvalidToken})
			return
		}

		// 3. Pass the subject to the next handler
		c.Set(ContextUserID, claims.Subject)
		c.Next()
	}
}

// UserID returns the subject set by AuthRequired.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserID)
	return id, id != ""
}
