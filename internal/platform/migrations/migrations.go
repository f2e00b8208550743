// Package migrations embeds the SQL schema of both supported databases and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/noteaapp/notea/internal/platform/logger"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedded embed.FS

// Dialect selects the migration set.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func (d Dialect) goose() (goose.Dialect, error) {
	switch d {
	case Postgres:
		return goose.DialectPostgres, nil
	case SQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", string(d))
	}
}

// NewProvider returns a goose provider over the embedded migrations of dialect.
func NewProvider(db *sql.DB, dialect Dialect) (*goose.Provider, error) {
	gooseDialect, err := dialect.goose()
	if err != nil {
		return nil, err
	}

	fsys, err := fs.Sub(embedded, string(dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s migrations: %w", dialect, err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, dialect Dialect) error {
	log := logger.FromContext(ctx).With(
		slog.String("component", "migrations"),
		slog.String("dialect", string(dialect)),
	)

	provider, err := NewProvider(db, dialect)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		log.Error("migration failed", slog.String("error", err.Error()))
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, result := range results {
		log.Info("applied migration",
			slog.Int64("version", result.Source.Version),
			slog.String("file", result.Source.Path),
			slog.Duration("duration", result.Duration))
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Debug("database schema is up to date", slog.Int64("version", version))

	return nil
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB, dialect Dialect) error {
	provider, err := NewProvider(db, dialect)
	if err != nil {
		return err
	}
	if _, err := provider.Down(ctx); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Status reports each embedded migration and whether it has been applied.
func Status(ctx context.Context, db *sql.DB, dialect Dialect) ([]*goose.MigrationStatus, error) {
	provider, err := NewProvider(db, dialect)
	if err != nil {
		return nil, err
	}
	return provider.Status(ctx)
}
