package jwtmw

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrResourceNotFound is returned by an OwnerResolver when the addressed resource does not exist.
var ErrResourceNotFound = errors.New("resource not found")

const (
	msgForbidden        = "Forbidden: You do not have permission."
	msgResourceNotFound = "Resource not found."
	msgServerError      = "Server error."
)

// OwnerResolver returns the owner ID of the resource addressed by the request.
type OwnerResolver func(c *gin.Context) (string, error)

// RequireOwner lets the request through only when the authenticated subject owns
// the addressed resource. It must run after AuthRequired.
func RequireOwner(resolve OwnerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgNoToken})
			return
		}

		owner, err := resolve(c)
		if err != nil {
			if errors.Is(err, ErrResourceNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": msgResourceNotFound})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
			return
		}
		if owner != userID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgForbidden})
			return
		}
		c.Next()
	}
}
