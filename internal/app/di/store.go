// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recipe_backend/internal/config"
	authadapters "recipe_backend/internal/feature/auth/adapters"
	"recipe_backend/internal/feature/auth/usecase"
	"recipe_backend/internal/platform/db"
	platformhandler "recipe_backend/internal/platform/http/handler"
	"recipe_backend/internal/platform/mongo"
)

// userStore is a store that holds both the users and their refresh token sets.
type userStore interface {
	usecase.UserRepository
	usecase.RefreshTokenStore
}

// Store is the credential store selected by STORE_DRIVER.
type Store struct {
	Users  usecase.UserRepository
	Tokens usecase.RefreshTokenStore
	Checks []platformhandler.Check
	Close  func(context.Context) error
}

// NewStore connects the configured user store. The user store also holds the token
// sets until NewTokenStore replaces it with Redis.
func NewStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	var (
		users  userStore
		checks []platformhandler.Check
		closer = func(context.Context) error { return nil }
	)

	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, database, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		repo := authadapters.NewUserMongo(database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to create indexes: %w", err)
		}
		users = repo
		checks = append(checks, platformhandler.Check{Name: "mongo", Probe: mongo.Healthcheck(client)})
		closer = func(ctx context.Context) error { return client.Disconnect(ctx) }

	case config.DriverPostgres, config.DriverSQLite:
		gdb, err := db.Open(cfg.Store.Driver, cfg.DB)
		if err != nil {
			return nil, err
		}
		if cfg.DB.RunMigrations {
			if err := db.Migrate(gdb, authadapters.Models()...); err != nil {
				return nil, err
			}
		}
		users = authadapters.NewUserGorm(gdb)
		checks = append(checks, platformhandler.Check{Name: "db", Probe: db.Healthcheck(gdb)})
		closer = func(context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}

	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		users = authadapters.NewUserMemory()

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Store.Driver)
	}

	logger.Info("user store ready", zap.String("driver", cfg.Store.Driver))
	return &Store{Users: users, Tokens: users, Checks: checks, Close: closer}, nil
}
