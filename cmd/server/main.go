// Package main implements the entry point for the notea API server, which
// schedules flashcard reviews over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/noteaapp/notea/internal/app"
	"github.com/noteaapp/notea/internal/config"
	"github.com/noteaapp/notea/internal/platform/logger"
	"github.com/noteaapp/notea/internal/platform/migrations"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "notea-server: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("notea-server", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to a config file (default: ./config.yaml or $HOME/.notea/config.yaml)")
	migrateCmd := flags.String("migrate", "", "run a migration command (up, down, status) and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("driver", cfg.Database.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("error releasing resources", slog.String("error", err.Error()))
		}
	}()

	if *migrateCmd != "" {
		return handleMigrations(ctx, application, *migrateCmd)
	}

	return startHTTPServer(ctx, cfg.Server, setupRouter(application), log)
}

// handleMigrations runs a goose command against the configured database.
// app.New has already applied pending migrations, so "up" only reports.
func handleMigrations(ctx context.Context, a *app.App, command string) error {
	dialect := migrations.SQLite
	if a.Config.Database.Driver == config.DriverPostgres {
		dialect = migrations.Postgres
	}

	switch command {
	case "up":
		return migrations.Up(ctx, a.DB, dialect)
	case "down":
		return migrations.Down(ctx, a.DB, dialect)
	case "status":
		statuses, err := migrations.Status(ctx, a.DB, dialect)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		for _, s := range statuses {
			fmt.Printf("%-8s %05d %s\n", s.State, s.Source.Version, s.Source.Path)
		}
		return nil
	default:
		return fmt.Errorf("unknown migration command %q (want up, down or status)", command)
	}
}
