package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"versa/internal/domain"
	"versa/internal/infra/processor"
	"versa/internal/infra/progress"
	"versa/internal/infra/telemetry"
	"versa/internal/infra/validation"
)

// Options configures an Orchestrator. Catalog and Registry are required.
type Options struct {
	Catalog  domain.ToolCatalog
	Registry *processor.Registry
	// Settings enables strict settings validation when non-nil.
	Settings *validation.SettingsValidator
	Logger   *zap.Logger
	Metrics  domain.Metrics
}

// Orchestrator ties catalog lookup, input validation, processor resolution
// and dispatch into a single call returning a normalized result.
type Orchestrator struct {
	catalog  domain.ToolCatalog
	registry *processor.Registry
	settings *validation.SettingsValidator
	logger   *zap.Logger
	metrics  domain.Metrics
	now      func() time.Time
}

func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Orchestrator{
		catalog:  opts.Catalog,
		registry: opts.Registry,
		settings: opts.Settings,
		logger:   logger.Named("orchestrator"),
		metrics:  metrics,
		now:      time.Now,
	}
}

// Run processes req with the tool identified by toolID. Every outcome is
// returned as a ProcessResult; Run never panics on processor failures.
func (o *Orchestrator) Run(ctx context.Context, toolID string, req domain.ProcessRequest, emit domain.ProgressFunc) domain.ProcessResult {
	if ctx == nil {
		ctx = context.Background()
	}
	tracker := progress.NewTracker(emit)
	req.ToolID = toolID
	logger := telemetry.LoggerWithRequest(ctx, o.logger).With(telemetry.ToolIDField(toolID))
	start := o.now()

	tracker.Emit(domain.PercentInit, domain.MessageInitializing)

	tool, ok := o.catalog.GetToolByID(toolID)
	if !ok {
		logger.Info("unknown tool", telemetry.OutcomeField(string(domain.OutcomeUnknownTool)))
		return o.finish(toolID, "", domain.OutcomeUnknownTool, start, domain.Failed(domain.MessageUnknownTool))
	}

	proc, err := o.registry.Resolve(toolID)
	if err != nil {
		logger.Info("no processor for tool", telemetry.OutcomeField(string(domain.OutcomeUnsupported)), zap.Error(err))
		return o.finish(toolID, "", domain.OutcomeUnsupported, start, domain.Failed(domain.MessageUnsupportedTool))
	}
	family := string(proc.Family())

	tracker.Emit(domain.PercentValidate, domain.MessageValidating)
	if missing := validation.Missing(tool, req); len(missing) > 0 {
		logger.Info("invalid request",
			telemetry.EventField(telemetry.EventValidateFailed),
			zap.Strings("missing", missing),
		)
		return o.finish(toolID, family, domain.OutcomeInvalid, start, domain.Failed(domain.MessageInvalidInput))
	}
	if o.settings != nil {
		if err := o.settings.Validate(tool, req.Settings); err != nil {
			logger.Info("invalid settings",
				telemetry.EventField(telemetry.EventValidateFailed),
				zap.Error(err),
			)
			return o.finish(toolID, family, domain.OutcomeInvalid, start, domain.Failed(domain.MessageInvalidInput))
		}
	}
	if ctx.Err() != nil {
		return o.finish(toolID, family, domain.OutcomeCancelled, start, domain.Failed(domain.MessageCancelled))
	}

	tracker.Emit(domain.PercentDispatch, domain.MessageStarting)
	logger.Info("processing started", telemetry.EventField(telemetry.EventProcessStart), zap.String("family", family))

	o.metrics.AddInflight(toolID, 1)
	result := proc.Process(ctx, req, tracker.Func())
	o.metrics.AddInflight(toolID, -1)

	if result.Success && !tracker.Completed() {
		tracker.Emit(domain.PercentDone, domain.MessageComplete)
	}
	outcome := domain.OutcomeSuccess
	switch {
	case result.Success:
	case result.Message == domain.MessageCancelled:
		outcome = domain.OutcomeCancelled
	default:
		outcome = domain.OutcomeFailed
	}
	if !result.Success && result.Message == "" {
		result = domain.Failed(domain.MessageProcessingFailed)
	}
	return o.finish(toolID, family, outcome, start, result)
}

func (o *Orchestrator) finish(toolID, family string, outcome domain.ProcessOutcome, start time.Time, result domain.ProcessResult) domain.ProcessResult {
	duration := o.now().Sub(start)
	o.metrics.ObserveProcess(domain.ProcessMetric{
		ToolID:   toolID,
		Family:   family,
		Outcome:  outcome,
		Duration: duration,
	})
	o.logger.Debug("processing finished",
		telemetry.EventField(telemetry.EventProcessFinish),
		telemetry.ToolIDField(toolID),
		telemetry.OutcomeField(string(outcome)),
		telemetry.DurationField(duration),
	)
	return result
}

// ProcessToolRequest is the single-call entry point for request handlers.
// It runs with a background context; use Orchestrator.Run to cancel.
func ProcessToolRequest(o *Orchestrator, toolID string, req domain.ProcessRequest, emit domain.ProgressFunc) domain.ProcessResult {
	return o.Run(context.Background(), toolID, req, emit)
}
