package domain

import "time"

// ProcessOutcome labels how an invocation ended.
type ProcessOutcome string

const (
	OutcomeSuccess     ProcessOutcome = "success"
	OutcomeUnknownTool ProcessOutcome = "unknown_tool"
	OutcomeUnsupported ProcessOutcome = "unsupported"
	OutcomeInvalid     ProcessOutcome = "invalid_input"
	OutcomeFailed      ProcessOutcome = "failed"
	OutcomeCancelled   ProcessOutcome = "cancelled"
)

// ProcessMetric captures one orchestrated invocation.
type ProcessMetric struct {
	ToolID   string
	Family   string
	Outcome  ProcessOutcome
	Duration time.Duration
}

// Metrics records operational metrics for tool processing.
type Metrics interface {
	ObserveProcess(metric ProcessMetric)
	ObserveStage(toolID, stage string, duration time.Duration)
	AddInflight(toolID string, delta int)
	SetCatalogTools(count int)
}
