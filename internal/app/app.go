// Package app wires the configured store, scheduler and services together.
// Both the HTTP server and the command line build on it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/noteaapp/notea/internal/config"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/domain/srs"
	"github.com/noteaapp/notea/internal/events"
	"github.com/noteaapp/notea/internal/importer"
	"github.com/noteaapp/notea/internal/platform/logger"
	"github.com/noteaapp/notea/internal/platform/postgres"
	redisplatform "github.com/noteaapp/notea/internal/platform/redis"
	"github.com/noteaapp/notea/internal/platform/sqlite"
	"github.com/noteaapp/notea/internal/service"
	"github.com/noteaapp/notea/internal/service/card_review"
	"github.com/noteaapp/notea/internal/store"
	"github.com/redis/go-redis/v9"
)

// App holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB

	CardStore  store.CardStore
	ReviewLogs store.ReviewLogStore

	Scheduler srs.Service
	Emitter   *events.InMemoryEventEmitter
	Cards     service.CardService
	Reviews   card_review.CardReviewService
	Importer  *importer.Importer

	redis *redis.Client
}

// New opens the configured database, applies migrations and builds every
// service. Close releases what New opened.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if cfg == nil {
		return nil, domain.NewValidationError("cfg", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}
	ctx = logger.WithLogger(ctx, log)

	a := &App{Config: cfg, Logger: log}

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.DB = db

	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	log.Info("application initialized",
		slog.String("driver", cfg.Database.Driver),
		slog.Bool("redis_lock", cfg.Redis.Enabled))
	return a, nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.OpenDB(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		return postgres.OpenDB(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (a *App) init(ctx context.Context) error {
	switch a.Config.Database.Driver {
	case config.DriverPostgres:
		a.CardStore = postgres.NewPostgresCardStore(a.DB, a.Logger)
		a.ReviewLogs = postgres.NewPostgresReviewLogStore(a.DB, a.Logger)
	default:
		a.CardStore = sqlite.NewCardStore(a.DB, a.Logger)
		a.ReviewLogs = sqlite.NewReviewLogStore(a.DB, a.Logger)
	}

	var err error
	a.Scheduler, err = srs.NewServiceWithParams(a.Config.SRS.Params())
	if err != nil {
		return fmt.Errorf("failed to create SRS service: %w", err)
	}

	a.Emitter = events.NewInMemoryEventEmitter(a.Logger)
	a.Emitter.RegisterHandler(card_review.NewReviewLogHandler(a.ReviewLogs, a.Logger))

	opts := []card_review.Option{card_review.WithEventEmitter(a.Emitter)}
	if seed := a.Config.Review.Seed; seed != 0 {
		opts = append(opts, card_review.WithSeed(seed))
	}
	if a.Config.Redis.Enabled {
		a.redis, err = redisplatform.NewClient(ctx, a.Config.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		opts = append(opts, card_review.WithLocker(
			redisplatform.NewCardLocker(a.redis, a.Config.Redis.LockTTL, a.Logger)))
	}

	a.Reviews, err = card_review.NewCardReviewService(a.CardStore, a.Scheduler, a.Logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create card review service: %w", err)
	}

	a.Cards, err = service.NewCardService(a.DB, a.CardStore, a.ReviewLogs, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create card service: %w", err)
	}

	a.Importer = importer.New(a.Cards, domain.PolicyBox, a.Logger)
	return nil
}

// Close releases the database and the Redis connection.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing redis: %w", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
	}
	return errors.Join(errs...)
}
