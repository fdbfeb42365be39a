//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
)

func InitializeApplication(ctx context.Context, cfg ServeConfig, logging LoggingConfig) (*Application, func(), error) {
	wire.Build(AppSet)
	return nil, nil, nil
}

func InitializeRuntime(ctx context.Context, cfg ServeConfig, logging LoggingConfig) (*Runtime, func(), error) {
	wire.Build(RuntimeSet)
	return nil, nil, nil
}
