package app

import (
	"context"

	"go.uber.org/zap"

	"versa/internal/domain"
)

// App is the command-facing entry point used by the binaries.
type App struct {
	logger *zap.Logger
}

// ServeConfig selects the configuration file and optional in-process
// overrides applied after loading.
type ServeConfig struct {
	ConfigPath string
	Override   func(*domain.Config)
}

type ValidateConfig struct {
	ConfigPath string
}

func New(logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{logger: logger}
}

// Serve runs the daemon until ctx is done.
func (a *App) Serve(ctx context.Context, cfg ServeConfig) error {
	application, cleanup, err := InitializeApplication(ctx, cfg, LoggingConfig{Logger: a.logger})
	if err != nil {
		return err
	}
	defer cleanup()
	return application.Run(ctx)
}

// OpenRuntime builds the in-process processing stack. Callers must invoke
// the returned cleanup.
func (a *App) OpenRuntime(ctx context.Context, cfg ServeConfig) (*Runtime, func(), error) {
	return InitializeRuntime(ctx, cfg, LoggingConfig{Logger: a.logger})
}
