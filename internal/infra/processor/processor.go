package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"versa/internal/domain"
	"versa/internal/infra/telemetry"
)

// Options configures processors built by New and NewBuiltinRegistry.
type Options struct {
	Work      StageWork
	Transform Transform
	Logger    *zap.Logger
	Metrics   domain.Metrics
}

// Processor runs one variant's stage list for the tool ids it serves.
type Processor struct {
	variant   Variant
	work      StageWork
	transform Transform
	logger    *zap.Logger
	metrics   domain.Metrics
	now       func() time.Time
}

func New(variant Variant, opts Options) *Processor {
	work := opts.Work
	if work == nil {
		work = RandomDelay(
			time.Duration(domain.DefaultStageDelayMinMillis)*time.Millisecond,
			time.Duration(domain.DefaultStageDelayMaxMillis)*time.Millisecond,
		)
	}
	transform := opts.Transform
	if transform == nil {
		transform = Passthrough
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		variant:   variant,
		work:      work,
		transform: transform,
		logger:    logger.Named("processor").With(zap.String("family", string(variant.Family))),
		metrics:   opts.Metrics,
		now:       time.Now,
	}
}

func (p *Processor) Family() Family {
	return p.variant.Family
}

func (p *Processor) ToolIDs() []string {
	return append([]string(nil), p.variant.ToolIDs...)
}

func (p *Processor) Stages() []string {
	return append([]string(nil), p.variant.Stages...)
}

// Process runs every stage in order, emitting one progress event per stage
// and a terminal 100 on success. Failures, cancellation and panics are
// returned as failed results.
func (p *Processor) Process(ctx context.Context, req domain.ProcessRequest, emit domain.ProgressFunc) (result domain.ProcessResult) {
	if ctx == nil {
		ctx = context.Background()
	}
	if emit == nil {
		emit = domain.NopProgress
	}
	logger := telemetry.LoggerWithRequest(ctx, p.logger).With(telemetry.ToolIDField(req.ToolID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("processor panic", zap.Any("panic", r))
			result = domain.Failed(fmt.Sprintf("%s: %v", domain.MessageProcessingFailed, r))
		}
	}()

	count := len(p.variant.Stages)
	for i, name := range p.variant.Stages {
		if ctx.Err() != nil {
			return p.cancelled(logger, name)
		}
		emit(StagePercent(i, count), name)

		stage := Stage{ToolID: req.ToolID, Family: p.variant.Family, Index: i, Count: count, Name: name}
		start := p.now()
		err := p.work(ctx, stage)
		duration := p.now().Sub(start)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return p.cancelled(logger, name)
			}
			logger.Warn("stage failed",
				telemetry.EventField(telemetry.EventStageFailure),
				telemetry.StageField(name),
				zap.Error(err),
			)
			return domain.Failed(fmt.Sprintf("%s: %s", name, err.Error()))
		}
		p.observeStage(req.ToolID, name, duration)
		logger.Debug("stage completed",
			telemetry.StageField(name),
			telemetry.PercentField(StagePercent(i, count)),
			telemetry.DurationField(duration),
		)
	}

	if ctx.Err() != nil {
		return p.cancelled(logger, "")
	}
	output, err := p.transform(ctx, req)
	if err != nil {
		logger.Warn("transform failed", zap.Error(err))
		return domain.Failed(err.Error())
	}

	emit(domain.PercentDone, domain.MessageComplete)
	message := domain.MessageComplete
	if p.variant.Success != nil {
		message = p.variant.Success(req)
	}
	return domain.Succeeded(output, message)
}

func (p *Processor) cancelled(logger *zap.Logger, stage string) domain.ProcessResult {
	logger.Info("processing cancelled", telemetry.EventField(telemetry.EventCancelled), telemetry.StageField(stage))
	return domain.Failed(domain.MessageCancelled)
}

func (p *Processor) observeStage(toolID, stage string, duration time.Duration) {
	if p.metrics == nil {
		return
	}
	p.metrics.ObserveStage(toolID, stage, duration)
}
