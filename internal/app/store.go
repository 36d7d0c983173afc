// Package app wires configuration into the concrete stores shared by the
// binaries under cmd/.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/basewebproject/base-api/internal/api/middleware"
	"github.com/basewebproject/base-api/internal/core/ports"
	"github.com/basewebproject/base-api/internal/infrastructure/config"
	mongodb "github.com/basewebproject/base-api/internal/infrastructure/db/mongo"
	"github.com/basewebproject/base-api/internal/infrastructure/db/postgres"
	"github.com/basewebproject/base-api/internal/infrastructure/db/redis"
	"github.com/basewebproject/base-api/internal/infrastructure/http/handlers"
	"github.com/basewebproject/base-api/internal/infrastructure/schema"
)

const (
	appName     = "base-api"
	loginWindow = time.Minute
)

// Store bundles the adapters for the configured database driver.
type Store struct {
	Users      ports.UserRepository
	Inspector  ports.DatabaseInspector
	Migrations ports.MigrationReporter
	// Readiness pings every connection the store holds.
	Readiness map[string]handlers.Pinger

	closers []func(context.Context) error
}

// OpenStore connects to the database selected by cfg.Database.Driver.
func OpenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	default:
		return openPostgres(ctx, cfg, log)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	gdb, sqlDB, err := postgres.Connect(ctx, PostgresConfig(cfg), log.With().Str("component", "gorm").Logger())
	if err != nil {
		return nil, err
	}
	return &Store{
		Users:      postgres.NewUserRepository(gdb),
		Inspector:  postgres.NewInspector(gdb),
		Migrations: schema.NewReporter(schema.PostgresCatalog(), postgres.MigrationVersion(gdb, schema.MigrationsTable)),
		Readiness:  map[string]handlers.Pinger{"postgres": sqlDB.PingContext},
		closers:    []func(context.Context) error{func(context.Context) error { return sqlDB.Close() }},
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		MaxConnections: uint64(cfg.Database.MaxConnections),
		AppName:        appName,
	})
	if err != nil {
		return nil, err
	}
	return &Store{
		Users:      mongodb.NewUserRepository(db),
		Inspector:  mongodb.NewInspector(db),
		Migrations: schema.NewReporter(schema.MongoCatalog(), mongodb.MigrationVersion(db, schema.MigrationsTable)),
		Readiness: map[string]handlers.Pinger{
			"mongodb": mongodb.Ping(client),
		},
		closers: []func(context.Context) error{client.Disconnect},
	}, nil
}

// Close releases every connection opened by OpenStore and LoginLimiter.
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	return errors.Join(errs...)
}

// LoginLimiter returns the login throttle store. A configured Redis address
// shares counters across instances; otherwise they stay in process.
func (s *Store) LoginLimiter(ctx context.Context, cfg *config.Config, log zerolog.Logger) (echomiddleware.RateLimiterStore, error) {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("login rate limit kept in memory")
		return middleware.NewMemoryRateStore(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst), nil
	}

	client, err := redis.Connect(ctx, redis.Config{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		ClientName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	s.Readiness["redis"] = redis.Ping(client)
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })

	log.Info().Str("addr", cfg.Redis.Addr).Msg("login rate limit shared through redis")
	return redis.NewRateLimitStore(client, "login", cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst, loginWindow), nil
}

// NewMigrator opens a dedicated migration connection for the configured driver.
func NewMigrator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*schema.Migrator, error) {
	if cfg.Database.Driver == config.DriverMongo {
		return schema.NewMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, log)
	}
	return schema.NewPostgres(PostgresConfig(cfg).DSN(), log)
}

// PostgresConfig maps the DB_* settings onto the pool configuration.
func PostgresConfig(cfg *config.Config) postgres.Config {
	return postgres.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Database:       cfg.Database.Name,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: cfg.Database.MaxConnections,
	}
}
