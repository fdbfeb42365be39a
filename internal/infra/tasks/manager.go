package tasks

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"versa/internal/domain"
	"versa/internal/infra/telemetry"
)

const (
	statusMessageWorking   = "The operation is now in progress."
	statusMessageCancelled = "The task was cancelled."
)

// Options configures a Manager.
type Options struct {
	// TTL is how long finished tasks stay visible. Zero keeps them forever.
	TTL       time.Duration
	ListLimit int
	Logger    *zap.Logger
}

// Manager runs processing jobs in the background and keeps their latest
// progress and result in memory.
type Manager struct {
	mu        sync.Mutex
	tasks     map[string]*taskState
	order     []string
	now       func() time.Time
	ttl       time.Duration
	listLimit int
	logger    *zap.Logger
}

type taskState struct {
	task      domain.Task
	done      chan struct{}
	cancel    context.CancelFunc
	expiresAt *time.Time
}

func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := opts.ListLimit
	if limit <= 0 {
		limit = domain.DefaultTaskListLimit
	}
	return &Manager{
		tasks:     make(map[string]*taskState),
		order:     make([]string, 0),
		now:       time.Now,
		ttl:       opts.TTL,
		listLimit: limit,
		logger:    logger.Named("tasks"),
	}
}

// Create registers a task for toolID and starts run in its own goroutine.
// The task outlives ctx cancellation but keeps its values.
func (m *Manager) Create(ctx context.Context, toolID string, run domain.TaskRunner) (domain.Task, error) {
	if run == nil {
		return domain.Task{}, errors.New("task runner is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	now := m.now()
	task := domain.Task{
		TaskID:        uuid.NewString(),
		ToolID:        toolID,
		Status:        domain.TaskStatusWorking,
		StatusMessage: statusMessageWorking,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	state := &taskState{
		task:   task,
		done:   make(chan struct{}),
		cancel: cancel,
	}

	m.mu.Lock()
	m.purgeExpiredLocked()
	m.tasks[task.TaskID] = state
	m.order = append(m.order, task.TaskID)
	m.mu.Unlock()

	telemetry.LoggerWithRequest(ctx, m.logger).Info("task created",
		telemetry.EventField(telemetry.EventTaskCreated),
		telemetry.TaskIDField(task.TaskID),
		telemetry.ToolIDField(toolID),
	)

	go m.runTask(taskCtx, state, run)

	return task, nil
}

// Get returns the current task snapshot without blocking.
func (m *Manager) Get(_ context.Context, taskID string) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeExpiredLocked()
	state, ok := m.tasks[taskID]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return snapshot(state.task), nil
}

// List returns tasks in creation order. The cursor is opaque to callers.
func (m *Manager) List(_ context.Context, cursor string, limit int) (domain.TaskPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeExpiredLocked()

	if limit <= 0 || limit > m.listLimit {
		limit = m.listLimit
	}

	start := 0
	if cursor != "" {
		val, err := strconv.Atoi(cursor)
		if err != nil || val < 0 {
			return domain.TaskPage{}, domain.ErrInvalidCursor
		}
		start = val
	}

	if start >= len(m.order) {
		return domain.TaskPage{Tasks: []domain.Task{}}, nil
	}

	end := min(start+limit, len(m.order))

	tasks := make([]domain.Task, 0, end-start)
	for _, id := range m.order[start:end] {
		if state, ok := m.tasks[id]; ok {
			tasks = append(tasks, snapshot(state.task))
		}
	}

	nextCursor := ""
	if end < len(m.order) {
		nextCursor = strconv.Itoa(end)
	}
	return domain.TaskPage{Tasks: tasks, NextCursor: nextCursor}, nil
}

// Result blocks until the task finishes or ctx is done, then returns the
// terminal snapshot.
func (m *Manager) Result(ctx context.Context, taskID string) (domain.Task, error) {
	m.mu.Lock()
	m.purgeExpiredLocked()
	state, ok := m.tasks[taskID]
	m.mu.Unlock()
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	select {
	case <-ctx.Done():
		return domain.Task{}, ctx.Err()
	case <-state.done:
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot(state.task), nil
}

// Cancel stops a running task. The processor observes the cancelled
// context and stops before its next stage.
func (m *Manager) Cancel(_ context.Context, taskID string) error {
	m.mu.Lock()
	m.purgeExpiredLocked()
	state, ok := m.tasks[taskID]
	if !ok {
		m.mu.Unlock()
		return domain.ErrTaskNotFound
	}
	if isTerminal(state.task.Status) {
		m.mu.Unlock()
		return domain.ErrTaskCompleted
	}
	state.cancel()
	result := domain.Failed(domain.MessageCancelled)
	m.finishLocked(state, domain.TaskStatusCancelled, statusMessageCancelled, &result)
	final := snapshot(state.task)
	m.mu.Unlock()

	close(state.done)
	m.logFinished(final)
	return nil
}

func (m *Manager) runTask(ctx context.Context, state *taskState, run domain.TaskRunner) {
	defer state.cancel()

	emit := func(percent int, message string) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if isTerminal(state.task.Status) {
			return
		}
		state.task.Percent = percent
		state.task.Progress = message
		state.task.LastUpdatedAt = m.now()
	}
	result := run(ctx, emit)

	m.mu.Lock()
	if isTerminal(state.task.Status) {
		m.mu.Unlock()
		return
	}
	status := domain.TaskStatusFailed
	switch {
	case result.Success:
		status = domain.TaskStatusCompleted
	case result.Message == domain.MessageCancelled || ctx.Err() != nil:
		status = domain.TaskStatusCancelled
	}
	m.finishLocked(state, status, result.Message, &result)
	final := snapshot(state.task)
	m.mu.Unlock()

	close(state.done)
	m.logFinished(final)
}

func (m *Manager) finishLocked(state *taskState, status domain.TaskStatus, message string, result *domain.ProcessResult) {
	now := m.now()
	state.task.Status = status
	state.task.StatusMessage = message
	state.task.Result = result
	state.task.LastUpdatedAt = now
	if status == domain.TaskStatusCompleted {
		state.task.Percent = domain.PercentDone
	}
	if m.ttl > 0 {
		exp := now.Add(m.ttl)
		state.expiresAt = &exp
	}
}

func (m *Manager) logFinished(task domain.Task) {
	m.logger.Info("task finished",
		telemetry.EventField(telemetry.EventTaskFinished),
		telemetry.TaskIDField(task.TaskID),
		telemetry.ToolIDField(task.ToolID),
		telemetry.OutcomeField(string(task.Status)),
		telemetry.DurationField(task.LastUpdatedAt.Sub(task.CreatedAt)),
	)
}

func (m *Manager) purgeExpiredLocked() {
	if len(m.tasks) == 0 {
		return
	}
	now := m.now()
	filtered := m.order[:0]
	for _, id := range m.order {
		state, ok := m.tasks[id]
		if !ok {
			continue
		}
		if state.expiresAt != nil && state.expiresAt.Before(now) {
			delete(m.tasks, id)
			continue
		}
		filtered = append(filtered, id)
	}
	m.order = filtered
}

func snapshot(task domain.Task) domain.Task {
	if task.Result != nil {
		result := *task.Result
		task.Result = &result
	}
	return task
}

func isTerminal(status domain.TaskStatus) bool {
	switch status {
	case domain.TaskStatusCompleted, domain.TaskStatusFailed, domain.TaskStatusCancelled:
		return true
	default:
		return false
	}
}
