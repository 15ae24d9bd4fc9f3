package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe_backend/internal/feature/auth/domain"
	"recipe_backend/internal/feature/auth/transport/http/dto"
)

const (
	msgInternal        = "An internal server error occurred."
	msgUnavailable     = "Service temporarily unavailable. Please try again."
	msgInvalidRequest  = "Invalid request body."
	msgUnauthenticated = "User not authenticated."
)

// statusFor maps an error kind to its HTTP status.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindAuth, domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a {message} body. Only messages of tagged client errors
// reach the client; everything else becomes a generic server error.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageRes{Message: msgInternal})
		return
	}

	if de.Kind == domain.KindStore && errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusServiceUnavailable, dto.MessageRes{Message: msgUnavailable})
		return
	}

	status := statusFor(de.Kind)
	if status < http.StatusInternalServerError {
		logger.Debug("request rejected",
			zap.String("path", c.FullPath()),
			zap.Stringer("kind", de.Kind),
			zap.String("message", de.Message))
	}
	c.JSON(status, dto.MessageRes{Message: de.Message})
}

// bindBody decodes the request body into req. An empty body leaves req zeroed so the
// usecase reports the missing fields itself.
func bindBody(c *gin.Context, req any) bool {
	if err := c.ShouldBind(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: msgInvalidRequest})
		return false
	}
	return true
}
