// Command seed-admin creates the administrator account described by
// ADMIN_NAME, ADMIN_EMAIL and ADMIN_PASSWORD. Running it again is a no-op.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/basewebproject/base-api/internal/app"
	"github.com/basewebproject/base-api/internal/core/service"
	"github.com/basewebproject/base-api/internal/infrastructure/config"
	"github.com/basewebproject/base-api/internal/infrastructure/password"
	"github.com/basewebproject/base-api/internal/infrastructure/token"
	"github.com/basewebproject/base-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "seed-admin:", err)
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
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seed-admin"})

	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	auth := service.NewAuthService(
		store.Users,
		token.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		password.NewBcryptHasher(password.DefaultCost),
		log,
	)

	created, err := auth.SeedAdmin(ctx, service.AdminSeed{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	})
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("email", cfg.Admin.Email).Msg("admin user created")
	} else {
		log.Info().Str("email", cfg.Admin.Email).Msg("admin user already exists")
	}
	return nil
}
