// Package router assembles the HTTP routes of the service.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authhandler "recipe_backend/internal/feature/auth/transport/handler"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/platform/logger"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth   *authhandler.AuthHandler
	Google *authhandler.GoogleHandler
	Users  *authhandler.UserHandler
	Health gin.HandlerFunc
}

// NewRouter builds the gin engine. Protected routes verify the bearer access token
// with verifier and never touch the store.
func NewRouter(log *zap.Logger, verifier jwtmw.AccessVerifier, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(logger.GinMiddleware(log), gin.Recovery())

	// Public
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
		auth.POST("/google-signin", h.Google.SignIn)
		auth.GET("/google", h.Google.Start)
		auth.GET("/google/callback", h.Google.Callback)
	}

	r.GET("/users/:id", h.Users.Public)

	// Authenticated
	users := r.Group("/users")
	users.Use(jwtmw.AuthRequired(verifier))
	{
		users.GET("/me", h.Users.Me)
		users.PUT("/me", h.Users.UpdateMe)
		users.DELETE("/me", h.Users.DeleteMe)
		users.PUT("/me/password", h.Users.ChangePassword)
		users.DELETE("/:id", jwtmw.RequireOwner(h.Users.OwnerOf), h.Users.Delete)
	}

	return r
}
