package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"versa/internal/domain"
	"versa/internal/infra/catalog"
	"versa/internal/infra/config"
	"versa/internal/infra/history"
	"versa/internal/infra/httpapi"
	"versa/internal/infra/orchestrator"
	"versa/internal/infra/processor"
	"versa/internal/infra/tasks"
	"versa/internal/infra/telemetry"
	"versa/internal/infra/validation"
)

const (
	healthComponentCatalog = "catalog"
	healthComponentHistory = "history"
)

func NewConfig(ctx context.Context, cfg ServeConfig, logger *zap.Logger) (domain.Config, error) {
	loaded, err := config.NewLoader(logger).Load(ctx, cfg.ConfigPath)
	if err != nil {
		return domain.Config{}, err
	}
	if cfg.Override != nil {
		cfg.Override(&loaded)
	}
	return loaded, nil
}

func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registry.MustRegister(prometheus.NewGoCollector())
	return registry
}

func NewMetrics(registry *prometheus.Registry) domain.Metrics {
	return telemetry.NewPrometheusMetrics(registry)
}

func NewHealthTracker() *telemetry.HealthTracker {
	return telemetry.NewHealthTracker()
}

func NewCatalogProvider(ctx context.Context, cfg domain.Config, metrics domain.Metrics, health *telemetry.HealthTracker, logger *zap.Logger) (*catalog.WatchedProvider, error) {
	provider, err := catalog.NewWatchedProvider(ctx, cfg.CatalogPath, catalog.ProviderOptions{
		Logger:   logger,
		Debounce: time.Duration(domain.DefaultCatalogReloadDebounceMillis) * time.Millisecond,
		OnReload: func(c *catalog.Catalog) {
			metrics.SetCatalogTools(c.Len())
			health.Set(healthComponentCatalog, "")
		},
	})
	if err != nil {
		return nil, err
	}
	return provider, nil
}

func NewProcessorRegistry(cfg domain.Config, metrics domain.Metrics, logger *zap.Logger) *processor.Registry {
	var work processor.StageWork = processor.NoDelay
	if cfg.StageDelay.MaxMillis > 0 {
		work = processor.RandomDelay(cfg.StageDelay.Min(), cfg.StageDelay.Max())
	}
	return processor.NewBuiltinRegistry(processor.Options{
		Work:    work,
		Logger:  logger,
		Metrics: metrics,
	})
}

func NewSettingsValidator(cfg domain.Config) *validation.SettingsValidator {
	if !cfg.StrictSettings {
		return nil
	}
	return validation.NewSettingsValidator()
}

func NewOrchestrator(catalog domain.ToolCatalog, registry *processor.Registry, settings *validation.SettingsValidator, metrics domain.Metrics, logger *zap.Logger) *orchestrator.Orchestrator {
	return orchestrator.New(orchestrator.Options{
		Catalog:  catalog,
		Registry: registry,
		Settings: settings,
		Logger:   logger,
		Metrics:  metrics,
	})
}

func NewTaskManager(cfg domain.Config, logger *zap.Logger) *tasks.Manager {
	return tasks.NewManager(tasks.Options{
		TTL:       cfg.TaskTTL(),
		ListLimit: cfg.TaskListLimit,
		Logger:    logger,
	})
}

// NewHistoryStore opens the history database. An empty path disables
// history; an unavailable database is reported through health instead of
// failing startup.
func NewHistoryStore(cfg domain.Config, health *telemetry.HealthTracker, logger *zap.Logger) (*history.Store, func()) {
	if cfg.HistoryPath == "" {
		return nil, func() {}
	}
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		logger.Warn("history disabled", zap.String("path", cfg.HistoryPath), zap.Error(err))
		health.Set(healthComponentHistory, err.Error())
		return nil, func() {}
	}
	health.Set(healthComponentHistory, "")
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close history store", zap.Error(err))
		}
	}
}

func NewAPIHandler(catalog domain.ToolCatalog, service *ProcessingService, logs *telemetry.LogBroadcaster, logger *zap.Logger) *httpapi.Handler {
	return httpapi.NewHandler(httpapi.Options{
		Catalog: catalog,
		Jobs:    service,
		History: service,
		Logs:    logs,
		Logger:  logger,
	})
}
