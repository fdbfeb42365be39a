package app

import (
	"context"

	"go.uber.org/zap"

	"versa/internal/infra/catalog"
	"versa/internal/infra/config"
	"versa/internal/infra/processor"
)

// ValidateConfig loads the configuration and the catalog it points at
// without starting anything.
func (a *App) ValidateConfig(ctx context.Context, cfg ValidateConfig) error {
	logger := a.logger.Named("validate")

	loaded, err := config.NewLoader(logger).Load(ctx, cfg.ConfigPath)
	if err != nil {
		return err
	}
	tools, err := catalog.NewLoader(logger).Load(ctx, loaded.CatalogPath)
	if err != nil {
		return err
	}

	registry := processor.NewBuiltinRegistry(processor.Options{Work: processor.NoDelay})
	var unsupported []string
	for _, tool := range tools.List() {
		if !registry.Supports(tool.ID) {
			unsupported = append(unsupported, tool.ID)
		}
	}

	logger.Info("configuration validated",
		zap.String("config", cfg.ConfigPath),
		zap.String("catalog", tools.Source()),
		zap.Int("tools", tools.Len()),
		zap.Int("supported", tools.Len()-len(unsupported)),
		zap.Strings("unsupported", unsupported),
	)
	return nil
}
