// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// defaultCheckTimeout bounds each dependency probe.
const defaultCheckTimeout = 2 * time.Second

// Check is a named dependency probe.
type Check struct {
	Name  string
	Probe func(context.Context) error
}

// Health returns the /healthz handler. GET reports every check and answers 503 if any
// fails; HEAD answers with the status code only. Responses are never cached.
func Health(logger *zap.Logger, checks ...Check) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		// Explicitly prevent caching
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		status := http.StatusOK
		results := make(gin.H, len(checks))
		for _, chk := range checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), defaultCheckTimeout)
			err := chk.Probe(ctx)
			cancel()
			if err != nil {
				logger.Warn("health check failed", zap.String("check", chk.Name), zap.Error(err))
				results[chk.Name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			results[chk.Name] = "up"
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}

		body := gin.H{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "unavailable"
		}
		if len(checks) > 0 {
			body["checks"] = results
		}
		c.JSON(status, body)
	}
}
