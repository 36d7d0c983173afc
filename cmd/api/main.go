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

	"github.com/basewebproject/base-api/docs"
	"github.com/basewebproject/base-api/internal/api"
	"github.com/basewebproject/base-api/internal/app"
	"github.com/basewebproject/base-api/internal/core/domain"
	"github.com/basewebproject/base-api/internal/core/service"
	"github.com/basewebproject/base-api/internal/infrastructure/config"
	"github.com/basewebproject/base-api/internal/infrastructure/password"
	"github.com/basewebproject/base-api/internal/infrastructure/token"
	"github.com/basewebproject/base-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "api:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "base-api",
		Env:     cfg.Env,
	})

	if cfg.Database.AutoMigrate {
		if err := migrate(ctx, cfg); err != nil {
			return err
		}
	}

	store, err := app.OpenStore(ctx, cfg, logger.Component("db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()

	limiter, err := store.LoginLimiter(ctx, cfg, logger.Component("ratelimit"))
	if err != nil {
		return err
	}

	hasher := password.NewBcryptHasher(password.DefaultCost)
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	docs.SwaggerInfo.BasePath = cfg.Prefix()

	e := api.NewRouter(api.Deps{
		Log:          logger.Component("http"),
		Prefix:       cfg.Prefix(),
		Origins:      cfg.Origins(),
		FrontendURL:  cfg.FrontendURL,
		Users:        service.NewCrudService[domain.User](store.Users, "User", logger.Component("users")),
		Auth:         service.NewAuthService(store.Users, tokens, hasher, logger.Component("auth")),
		Tokens:       tokens,
		Hasher:       hasher,
		Status:       service.NewStatusService(store.Inspector, store.Migrations),
		LoginLimiter: limiter,
		Readiness:    store.Readiness,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("prefix", cfg.Prefix()).
			Str("driver", cfg.Database.Driver).
			Msg("api listening")
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func migrate(ctx context.Context, cfg *config.Config) error {
	m, err := app.NewMigrator(ctx, cfg, logger.Component("migrate"))
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
