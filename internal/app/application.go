package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"versa/internal/infra/httpapi"
	"versa/internal/infra/telemetry"
)

// Application is the long-running daemon: runtime plus HTTP surface.
type Application struct {
	runtime  *Runtime
	api      *httpapi.Handler
	registry *prometheus.Registry
	health   *telemetry.HealthTracker
	logger   *zap.Logger
}

func NewApplication(runtime *Runtime, api *httpapi.Handler, registry *prometheus.Registry, health *telemetry.HealthTracker, logger *zap.Logger) *Application {
	return &Application{
		runtime:  runtime,
		api:      api,
		registry: registry,
		health:   health,
		logger:   logger.Named("app"),
	}
}

// Run serves until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	cfg := a.runtime.Config
	a.logger.Info("starting",
		zap.String("listen", cfg.ListenAddress),
		zap.String("catalog", a.runtime.Catalog.Current().Source()),
		zap.Int("tools", a.runtime.Catalog.Current().Len()),
		zap.Strings("supported", a.runtime.Registry.SupportedToolIDs()),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	if cfg.WatchCatalog {
		group.Go(func() error {
			if err := a.runtime.Catalog.Watch(groupCtx); err != nil {
				a.health.Set(healthComponentCatalog, err.Error())
				a.logger.Warn("catalog watcher stopped", zap.Error(err))
			}
			return nil
		})
	}
	group.Go(func() error {
		return telemetry.StartHTTPServer(groupCtx, telemetry.HTTPServerOptions{
			Addr:          cfg.ListenAddress,
			EnableMetrics: cfg.Metrics,
			EnableHealthz: cfg.Healthz,
			Health:        a.health,
			Registry:      a.registry,
			Handler:       a.api,
		}, a.logger)
	})
	return group.Wait()
}
