package app

import (
	"versa/internal/domain"
	"versa/internal/infra/catalog"
)

// Runtime is the in-process processing stack shared by the daemon and the
// command line client.
type Runtime struct {
	Config   domain.Config
	Catalog  *catalog.WatchedProvider
	Service  *ProcessingService
	Registry SupportedTools
}

// SupportedTools reports which tool ids have a processor.
type SupportedTools interface {
	SupportedToolIDs() []string
	Supports(toolID string) bool
}

func NewRuntime(cfg domain.Config, provider *catalog.WatchedProvider, service *ProcessingService, registry SupportedTools) *Runtime {
	return &Runtime{
		Config:   cfg,
		Catalog:  provider,
		Service:  service,
		Registry: registry,
	}
}
