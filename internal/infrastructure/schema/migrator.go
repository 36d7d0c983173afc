// Package schema applies and reports the embedded schema migrations.
package schema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/basewebproject/base-api/migrations"
)

// MigrationsTable is where both stores record the applied version.
const MigrationsTable = "schema_migrations"

// Migrator runs migrations over a dedicated connection. Close releases it
// without touching the application's pool.
type Migrator struct {
	m   *migrate.Migrate
	log zerolog.Logger
}

// NewPostgres opens its own connection to dsn and loads the SQL migrations.
func NewPostgres(dsn string, log zerolog.Logger) (*Migrator, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	sqlDB := stdlib.OpenDB(*cfg)

	drv, err := pgxmigrate.WithInstance(sqlDB, &pgxmigrate.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	return newMigrator(migrations.Postgres, "postgres", "pgx5", drv, log)
}

// NewMongo connects a dedicated client to uri and loads the command migrations
// for database.
func NewMongo(ctx context.Context, uri, database string, log zerolog.Logger) (*Migrator, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	drv, err := mongodb.WithInstance(client, &mongodb.Config{
		DatabaseName:         database,
		MigrationsCollection: MigrationsTable,
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	return newMigrator(migrations.Mongo, "mongo", "mongodb", drv, log)
}

func newMigrator(fsys fs.FS, dir, dbName string, drv database.Driver, log zerolog.Logger) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		_ = drv.Close()
		return nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dbName, drv)
	if err != nil {
		_ = drv.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	mig := &Migrator{m: m, log: log.With().Str("component", "migrate").Logger()}
	m.Log = migrateLogger{log: mig.log}
	return mig, nil
}

// Up applies every pending migration. Being already current is not an error.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down reverts n migrations.
func (m *Migrator) Down(n int) error {
	if n <= 0 {
		n = 1
	}
	if err := m.m.Steps(-n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Version returns the applied version; zero means nothing was applied.
func (m *Migrator) Version() (uint, bool, error) {
	v, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migrate version: %w", err)
	}
	return v, dirty, nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

type migrateLogger struct {
	log zerolog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Info().Msgf(format, v...)
}

func (l migrateLogger) Verbose() bool { return false }
