package di

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"recipe_backend/internal/config"
	platformhandler "recipe_backend/internal/platform/http/handler"
	infraredis "recipe_backend/internal/platform/redis"
	"recipe_backend/internal/platform/session"
)

// NewTokenStore moves the refresh token sets to Redis when it is configured and
// reachable. Otherwise the user store keeps them. The returned function closes
// the Redis client, if any.
func NewTokenStore(ctx context.Context, cfg *config.Config, store *Store, logger *zap.Logger) func() error {
	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		if !errors.Is(err, infraredis.ErrNotConfigured) {
			logger.Warn("redis unavailable, keeping refresh tokens in the user store", zap.Error(err))
		}
		return func() error { return nil }
	}

	store.Tokens = session.NewTokenSetRedis(rdb, cfg.Redis.KeyPrefix)
	store.Checks = append(store.Checks, platformhandler.Check{Name: "redis", Probe: session.Healthcheck(rdb)})
	return rdb.Close
}
