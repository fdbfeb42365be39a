package telemetry

import (
	"time"

	"versa/internal/domain"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveProcess(_ domain.ProcessMetric) {}

func (n *NoopMetrics) ObserveStage(_ string, _ string, _ time.Duration) {}

func (n *NoopMetrics) AddInflight(_ string, _ int) {}

func (n *NoopMetrics) SetCatalogTools(_ int) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
