package app

import (
	"context"
	"fmt"

	"github.com/Black-And-White-Club/leaderboard-scores/config"
	"github.com/Black-And-White-Club/leaderboard-scores/internal/observability"
)

// DefaultConfigPath is read when CONFIG_PATH is unset. A missing file falls
// back to environment variables.
const DefaultConfigPath = "config.yaml"

// Bootstrap loads configuration, initializes observability and builds the App.
func Bootstrap(ctx context.Context, configPath string, opts Options) (*App, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	obs, err := observability.Init(ctx, cfg.Observability)
	if err != nil {
		return nil, err
	}

	app, err := NewApp(ctx, cfg, obs, opts)
	if err != nil {
		obs.Logger.ErrorContext(ctx, "Failed to initialize application", "error", err)
		obs.Shutdown(ctx)
		return nil, err
	}
	return app, nil
}

// Shutdown closes the App and flushes telemetry.
func (app *App) Shutdown(ctx context.Context) error {
	err := app.Close()
	if obsErr := app.Observability.Shutdown(ctx); obsErr != nil && err == nil {
		err = obsErr
	}
	return err
}
