package telemetry

import (
	"time"

	"go.uber.org/zap"
)

const (
	FieldEvent      = "event"
	FieldToolID     = "tool_id"
	FieldTaskID     = "task_id"
	FieldStage      = "stage"
	FieldPercent    = "percent"
	FieldOutcome    = "outcome"
	FieldDurationMs = "duration_ms"
	FieldLogSource  = "log_source"
	FieldRequestID  = "request_id"
	FieldTraceID    = "trace_id"
	FieldSpanID     = "span_id"
)

const (
	EventProcessStart   = "process_start"
	EventProcessFinish  = "process_finish"
	EventValidateFailed = "validate_failed"
	EventStageFailure   = "stage_failure"
	EventCancelled      = "cancelled"
	EventCatalogReload  = "catalog_reload"
	EventTaskCreated    = "task_created"
	EventTaskFinished   = "task_finished"
)

const (
	LogSourceCore = "core"
	LogSourceCLI  = "cli"
	LogSourceHTTP = "http"
)

func EventField(event string) zap.Field {
	return zap.String(FieldEvent, event)
}

func ToolIDField(toolID string) zap.Field {
	return zap.String(FieldToolID, toolID)
}

func TaskIDField(taskID string) zap.Field {
	return zap.String(FieldTaskID, taskID)
}

func StageField(stage string) zap.Field {
	return zap.String(FieldStage, stage)
}

func PercentField(percent int) zap.Field {
	return zap.Int(FieldPercent, percent)
}

func OutcomeField(outcome string) zap.Field {
	return zap.String(FieldOutcome, outcome)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}

func RequestIDField(value string) zap.Field {
	return zap.String(FieldRequestID, value)
}

func TraceIDField(value string) zap.Field {
	return zap.String(FieldTraceID, value)
}

func SpanIDField(value string) zap.Field {
	return zap.String(FieldSpanID, value)
}
