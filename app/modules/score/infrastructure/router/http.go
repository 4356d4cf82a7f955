package scorerouter

import (
	"log/slog"

	scorehandlers "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/handlers"
	scoresjwt "github.com/Black-And-White-Club/leaderboard-scores/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// HTTPOptions configures the middleware in front of the score routes.
type HTTPOptions struct {
	AllowedOrigins []string
	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit float64
	RateBurst int
	// JWTSecret protects POST when set.
	JWTSecret string
	Logger    *slog.Logger
}

// RegisterHTTPRoutes mounts the score API under /api/scores.
func RegisterHTTPRoutes(r chi.Router, handlers scorehandlers.Handlers, opts HTTPOptions) {
	r.Route("/api/scores", func(r chi.Router) {
		r.Use(scorehandlers.CORSMiddleware(opts.AllowedOrigins))
		if opts.RateLimit > 0 {
			limiter := scorehandlers.NewIPRateLimiter(rate.Limit(opts.RateLimit), max(opts.RateBurst, 1))
			r.Use(scorehandlers.RateLimitMiddleware(limiter))
		}

		r.Get("/", handlers.HandleHTTPGetScores)
		r.Get("/{game}/export.xlsx", handlers.HandleHTTPExport)
		r.Get("/{game}/chart.png", handlers.HandleHTTPChart)

		var tokens scoresjwt.Service
		if opts.JWTSecret != "" {
			tokens = scoresjwt.NewService(opts.JWTSecret)
		}

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(scorehandlers.BearerAuthMiddleware(tokens, opts.Logger))
			r.Post("/", handlers.HandleHTTPPostScore)
		})
	})
}
