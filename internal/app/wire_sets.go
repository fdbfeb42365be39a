//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"versa/internal/domain"
	"versa/internal/infra/catalog"
	"versa/internal/infra/processor"
)

var CoreInfraSet = wire.NewSet(
	NewLogging,
	NewLogger,
	NewLogBroadcaster,
	NewConfig,
	NewMetricsRegistry,
	NewMetrics,
	NewHealthTracker,
)

var ProcessingSet = wire.NewSet(
	NewCatalogProvider,
	wire.Bind(new(domain.ToolCatalog), new(*catalog.WatchedProvider)),
	NewProcessorRegistry,
	wire.Bind(new(SupportedTools), new(*processor.Registry)),
	NewSettingsValidator,
	NewOrchestrator,
	NewTaskManager,
	NewHistoryStore,
	NewProcessingService,
	NewRuntime,
)

var RuntimeSet = wire.NewSet(
	CoreInfraSet,
	ProcessingSet,
)

var AppSet = wire.NewSet(
	CoreInfraSet,
	ProcessingSet,
	NewAPIHandler,
	NewApplication,
)
