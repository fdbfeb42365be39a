package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"versa/internal/domain"
	"versa/internal/infra/history"
	"versa/internal/infra/orchestrator"
	"versa/internal/infra/tasks"
)

// ProcessingService runs tool requests synchronously or as background
// tasks and records every outcome in the history store when one is open.
type ProcessingService struct {
	orchestrator *orchestrator.Orchestrator
	tasks        *tasks.Manager
	history      *history.Store
	logger       *zap.Logger
	now          func() time.Time
}

func NewProcessingService(orch *orchestrator.Orchestrator, manager *tasks.Manager, store *history.Store, logger *zap.Logger) *ProcessingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessingService{
		orchestrator: orch,
		tasks:        manager,
		history:      store,
		logger:       logger.Named("processing"),
		now:          time.Now,
	}
}

// Process runs req to completion on the calling goroutine.
func (s *ProcessingService) Process(ctx context.Context, req domain.ProcessRequest, emit domain.ProgressFunc) domain.ProcessResult {
	start := s.now()
	result := s.orchestrator.Run(ctx, req.ToolID, req, emit)
	s.record(req, result, s.now().Sub(start))
	return result
}

// Submit starts req as a background task.
func (s *ProcessingService) Submit(ctx context.Context, req domain.ProcessRequest) (domain.Task, error) {
	return s.tasks.Create(ctx, req.ToolID, func(runCtx context.Context, emit domain.ProgressFunc) domain.ProcessResult {
		return s.Process(runCtx, req, emit)
	})
}

func (s *ProcessingService) Task(ctx context.Context, taskID string) (domain.Task, error) {
	return s.tasks.Get(ctx, taskID)
}

func (s *ProcessingService) Tasks(ctx context.Context, cursor string, limit int) (domain.TaskPage, error) {
	return s.tasks.List(ctx, cursor, limit)
}

func (s *ProcessingService) Cancel(ctx context.Context, taskID string) error {
	return s.tasks.Cancel(ctx, taskID)
}

// Wait blocks until the task finishes.
func (s *ProcessingService) Wait(ctx context.Context, taskID string) (domain.Task, error) {
	return s.tasks.Result(ctx, taskID)
}

func (s *ProcessingService) History(_ context.Context, query history.Query) ([]domain.HistoryRecord, error) {
	if s.history == nil {
		return nil, domain.E(domain.CodeUnavailable, "processing.history", "history is disabled", domain.ErrStoreClosed)
	}
	return s.history.List(query)
}

func (s *ProcessingService) record(req domain.ProcessRequest, result domain.ProcessResult, duration time.Duration) {
	if s.history == nil {
		return
	}
	record := domain.HistoryRecord{
		ToolID:   req.ToolID,
		Success:  result.Success,
		Message:  result.Message,
		Prompt:   req.Prompt,
		Duration: duration,
	}
	if result.Success {
		record.EditedImage = result.EditedImage
	}
	if _, err := s.history.Put(record); err != nil {
		s.logger.Warn("failed to record history", zap.String("tool", req.ToolID), zap.Error(err))
	}
}
