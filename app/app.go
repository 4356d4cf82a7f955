package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/leaderboard-scores/app/modules/score"
	"github.com/Black-And-White-Club/leaderboard-scores/config"
	"github.com/Black-And-White-Club/leaderboard-scores/db/bundb"
	"github.com/Black-And-White-Club/leaderboard-scores/internal/natsconn"
	"github.com/Black-And-White-Club/leaderboard-scores/internal/observability"
	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
)

// Options selects the transports an App serves.
type Options struct {
	// HTTP mounts the score API and operational endpoints on a chi router.
	HTTP bool
	// NATS subscribes the request-reply router when a NATS URL is configured.
	NATS bool
}

// App wires configuration, observability, storage and the score module.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bundb.DBService
	NATS          *nats.Conn
	Router        chi.Router
	ScoreModule   *score.Module
}

// NewApp opens the database and builds the score module. The Lambda entry
// points call it with zero Options so that only the handlers are wired.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability, opts Options) (*App, error) {
	logger := obs.Logger

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:        cfg,
		Observability: obs,
		DB:            dbService,
	}

	if opts.NATS && cfg.NATS.URL != "" {
		nc, err := natsconn.Connect(cfg.NATS, cfg.Observability.ServiceName, logger)
		if err != nil {
			dbService.Close()
			return nil, err
		}
		app.NATS = nc
	}

	if opts.HTTP {
		app.Router = app.newRouter()
	}

	app.ScoreModule, err = score.NewModule(ctx, cfg, logger, obs.Tracer, obs.Metrics, dbService.GetDB(), app.NATS, app.Router)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize score module: %w", err)
	}

	return app, nil
}

// Close releases NATS and the database.
func (app *App) Close() error {
	var errs []error
	if app.ScoreModule != nil {
		if err := app.ScoreModule.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.NATS != nil {
		if err := app.NATS.Drain(); err != nil {
			errs = append(errs, fmt.Errorf("drain nats: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
