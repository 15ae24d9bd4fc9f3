package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recipe_backend/internal/app/di"
	"recipe_backend/internal/app/router"
	"recipe_backend/internal/config"
	authhandler "recipe_backend/internal/feature/auth/transport/handler"
	authusecase "recipe_backend/internal/feature/auth/usecase"
	platformhandler "recipe_backend/internal/platform/http/handler"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/platform/logger"
	"recipe_backend/internal/platform/password"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store
	store, err := di.NewStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error("failed to close store", zap.Error(err))
		}
	}()

	// Redis
	closeRedis := di.NewTokenStore(ctx, cfg, store, log)
	defer func() {
		if err := closeRedis(); err != nil {
			log.Error("failed to close redis client", zap.Error(err))
		}
	}()

	// Usecase
	codec := jwtmw.NewCodec(jwtmw.Config{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL.Std(),
		RefreshTTL:    cfg.Auth.RefreshTTL.Std(),
	})
	authUC := authusecase.NewAuthUsecase(store.Users, store.Tokens, codec,
		password.NewBcrypt(cfg.Auth.BcryptCost), log, authusecase.Config{
			TokenCapacity: cfg.Auth.TokenCapacity,
			StoreTimeout:  cfg.Auth.StoreTimeout.Std(),
		})

	// Handler
	verifier, oauth := di.NewGoogle(cfg)
	engine := router.NewRouter(log, codec, router.Handlers{
		Auth:   authhandler.NewAuthHandler(authUC, log),
		Google: authhandler.NewGoogleHandler(authUC, verifier, oauth, cfg.HTTP.SecureCookies, log),
		Users:  authhandler.NewUserHandler(authUC, log),
		Health: platformhandler.Health(log, store.Checks...),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
