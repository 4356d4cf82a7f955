package score

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	scoreservice "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/application"
	scorehandlers "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/handlers"
	scoredb "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/repositories"
	scorerouter "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/router"
	"github.com/Black-And-White-Club/leaderboard-scores/config"
	"github.com/Black-And-White-Club/leaderboard-scores/internal/metrics/scoremetrics"
	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module represents the score module.
type Module struct {
	config     *config.Config
	service    scoreservice.Service
	handlers   scorehandlers.Handlers
	router     *scorerouter.NATSRouter
	cancelFunc context.CancelFunc
	logger     *slog.Logger
}

// NewModule wires the score repository, service and handlers. nc and
// httpRouter are optional; the Lambda entry points pass neither.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics scoremetrics.ScoreMetrics,
	db *bun.DB,
	nc *nats.Conn,
	httpRouter chi.Router,
) (*Module, error) {
	logger.InfoContext(ctx, "Initializing score module")

	loc, err := cfg.Scores.Location()
	if err != nil {
		return nil, fmt.Errorf("display timezone: %w", err)
	}

	repo := scoredb.NewRepository(db)
	service := scoreservice.NewScoreService(repo, logger, metrics, tracer, db, scoreservice.Options{
		DefaultLimit: cfg.Scores.DefaultLimit,
		Location:     loc,
	})
	handlers := scorehandlers.NewScoreHandlers(service, logger, tracer)

	var router *scorerouter.NATSRouter
	if nc != nil {
		router = scorerouter.NewNATSRouter(handlers, nc, cfg.NATS.QueueGroup)
	}

	if httpRouter != nil {
		scorerouter.RegisterHTTPRoutes(httpRouter, handlers, scorerouter.HTTPOptions{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			RateLimit:      cfg.HTTP.RateLimit,
			RateBurst:      cfg.HTTP.RateBurst,
			JWTSecret:      cfg.HTTP.JWTSecret,
			Logger:         logger,
		})
	}

	return &Module{
		config:   cfg,
		service:  service,
		handlers: handlers,
		router:   router,
		logger:   logger,
	}, nil
}

// Run subscribes the NATS router, if any, and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting score module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.router != nil {
		if err := m.router.Start(); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start score router",
				slog.Any("error", err),
			)
			return
		}
		m.logger.InfoContext(ctx, "Score module subscribed",
			slog.String("get_subject", scorerouter.GetScoresSubject),
			slog.String("post_subject", scorerouter.PostScoreSubject),
		)
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Score module goroutine stopped")
}

// Close stops the score module.
func (m *Module) Close() error {
	m.logger.Info("Stopping score module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.router != nil {
		if err := m.router.Stop(); err != nil {
			m.logger.Error("Error stopping score router", slog.Any("error", err))
			return fmt.Errorf("error stopping router: %w", err)
		}
	}

	m.logger.Info("Score module stopped")
	return nil
}

// Service returns the score service.
func (m *Module) Service() scoreservice.Service {
	return m.service
}

// Handlers returns the transport handlers, used by the Lambda entry points.
func (m *Module) Handlers() scorehandlers.Handlers {
	return m.handlers
}
