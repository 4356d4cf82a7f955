package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	scorehandlers "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
	healthTimeout     = 2 * time.Second
)

func (app *App) newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(scorehandlers.RequestLogger(app.Observability.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", app.handleHealth)
	if !app.separateMetrics() {
		r.Handle("/metrics", app.metricsHandler())
	}
	return r
}

func (app *App) metricsHandler() http.Handler {
	return promhttp.HandlerFor(app.Observability.Registry, promhttp.HandlerOpts{})
}

func (app *App) separateMetrics() bool {
	addr := app.Config.Observability.MetricsAddress
	return addr != "" && addr != app.Config.HTTP.Address
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := app.DB.GetDB().PingContext(ctx); err != nil {
		app.Observability.Logger.WarnContext(ctx, "Health check failed", slog.Any("error", err))
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	if app.NATS != nil && !app.NATS.IsConnected() {
		http.Error(w, "nats unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Run serves every configured transport until ctx is canceled, then shuts
// the servers down and waits for in-flight requests.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var servers []*http.Server
	if app.Router != nil {
		servers = append(servers, &http.Server{
			Addr:              app.Config.HTTP.Address,
			Handler:           app.Router,
			ReadHeaderTimeout: readHeaderTimeout,
		})
		if app.separateMetrics() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", app.metricsHandler())
			servers = append(servers, &http.Server{
				Addr:              app.Config.Observability.MetricsAddress,
				Handler:           mux,
				ReadHeaderTimeout: readHeaderTimeout,
			})
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go app.ScoreModule.Run(ctx, &wg)

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func() {
			logger.InfoContext(ctx, "Starting HTTP server", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("listen on %s: %w", srv.Addr, err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.InfoContext(ctx, "Shutdown signal received")
	case runErr = <-errCh:
		logger.ErrorContext(ctx, "HTTP server failed", slog.Any("error", runErr))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancelShutdown()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.ErrorContext(shutdownCtx, "HTTP server shutdown failed", slog.Any("error", err))
		}
	}

	cancel()
	wg.Wait()
	return errors.Join(runErr, app.Close())
}
