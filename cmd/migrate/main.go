// Command migrate applies or reverts the embedded schema migrations for the
// configured database driver.
//
//	migrate up
//	migrate down [-steps N]
//	migrate version
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/basewebproject/base-api/internal/app"
	"github.com/basewebproject/base-api/internal/infrastructure/config"
	"github.com/basewebproject/base-api/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate up | down [-steps N] | version")
	}
	cmd, rest := args[0], args[1:]

	fs := flag.NewFlagSet("migrate "+cmd, flag.ContinueOnError)
	steps := fs.Int("steps", 1, "number of migrations to revert")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "migrate"})

	m, err := app.NewMigrator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch cmd {
	case "up":
		if err := m.Up(); err != nil {
			return err
		}
	case "down":
		if err := m.Down(*steps); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Info().Str("driver", cfg.Database.Driver).Uint("version", v).Bool("dirty", dirty).Msg("schema version")
	return nil
}
