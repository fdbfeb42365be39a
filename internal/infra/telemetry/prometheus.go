package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"versa/internal/domain"
)

type PrometheusMetrics struct {
	processDuration *prometheus.HistogramVec
	processTotal    *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	inflight        *prometheus.GaugeVec
	catalogTools    prometheus.Gauge
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		processDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "versa_process_duration_seconds",
				Help:    "Duration of orchestrated tool invocations in seconds",
				Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"tool", "outcome"},
		),
		processTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "versa_process_total",
				Help: "Total number of tool invocations by outcome",
			},
			[]string{"tool", "family", "outcome"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "versa_stage_duration_seconds",
				Help:    "Duration of individual processor stages in seconds",
				Buckets: []float64{.001, .01, .1, .25, .5, 1, 1.5, 2.5, 5},
			},
			[]string{"tool", "stage"},
		),
		inflight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "versa_inflight_invocations",
				Help: "Current number of running tool invocations",
			},
			[]string{"tool"},
		),
		catalogTools: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "versa_catalog_tools",
				Help: "Number of tools in the loaded catalog",
			},
		),
	}
}

func (p *PrometheusMetrics) ObserveProcess(metric domain.ProcessMetric) {
	duration := metric.Duration
	if duration < 0 {
		duration = 0
	}
	outcome := string(metric.Outcome)
	p.processDuration.WithLabelValues(metric.ToolID, outcome).Observe(duration.Seconds())
	p.processTotal.WithLabelValues(metric.ToolID, metric.Family, outcome).Inc()
}

func (p *PrometheusMetrics) ObserveStage(toolID, stage string, duration time.Duration) {
	p.stageDuration.WithLabelValues(toolID, stage).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) AddInflight(toolID string, delta int) {
	p.inflight.WithLabelValues(toolID).Add(float64(delta))
}

func (p *PrometheusMetrics) SetCatalogTools(count int) {
	p.catalogTools.Set(float64(count))
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
