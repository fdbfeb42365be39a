package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"versa/internal/domain"
	"versa/internal/infra/catalog"
	"versa/internal/infra/history"
	"versa/internal/infra/telemetry"
)

type fakeJobs struct {
	mu        sync.Mutex
	submitted []domain.ProcessRequest
	tasks     map[string]domain.Task
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{tasks: make(map[string]domain.Task)}
}

func (f *fakeJobs) Submit(_ context.Context, req domain.ProcessRequest) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, req)
	task := domain.Task{TaskID: "task-1", ToolID: req.ToolID, Status: domain.TaskStatusWorking}
	f.tasks[task.TaskID] = task
	return task, nil
}

func (f *fakeJobs) Task(_ context.Context, taskID string) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[taskID]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return task, nil
}

func (f *fakeJobs) Tasks(_ context.Context, cursor string, _ int) (domain.TaskPage, error) {
	if cursor == "bad" {
		return domain.TaskPage{}, domain.ErrInvalidCursor
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	page := domain.TaskPage{Tasks: []domain.Task{}}
	for _, task := range f.tasks {
		page.Tasks = append(page.Tasks, task)
	}
	return page, nil
}

func (f *fakeJobs) Cancel(_ context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if task.Status != domain.TaskStatusWorking {
		return domain.ErrTaskCompleted
	}
	task.Status = domain.TaskStatusCancelled
	f.tasks[taskID] = task
	return nil
}

type fakeHistory struct {
	query history.Query
}

func (f *fakeHistory) History(_ context.Context, query history.Query) ([]domain.HistoryRecord, error) {
	f.query = query
	return []domain.HistoryRecord{{ID: "rec-1", ToolID: "denoise", Success: true, Message: "done"}}, nil
}

type fixture struct {
	handler *Handler
	jobs    *fakeJobs
	history *fakeHistory
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cat, err := catalog.NewLoader(nil).LoadDefault(context.Background())
	require.NoError(t, err)
	jobs := newFakeJobs()
	hist := &fakeHistory{}
	return fixture{
		handler: NewHandler(Options{Catalog: cat, Jobs: jobs, History: hist}),
		jobs:    jobs,
		history: hist,
	}
}

func (f fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCategories(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(telemetry.RequestIDHeader))

	body := decode[struct {
		Categories []categoryView `json:"categories"`
	}](t, rec)
	require.Len(t, body.Categories, 6)
	require.Equal(t, domain.CategoryFace, body.Categories[0].ID)
	require.Equal(t, "Face", body.Categories[0].Label)
	require.Equal(t, 5, body.Categories[0].Tools)
	require.Equal(t, "Advanced Tools", body.Categories[5].Label)
}

func TestListToolsFilters(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/tools?category=enhancement", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Tools []domain.ToolDefinition `json:"tools"`
	}](t, rec)
	require.Len(t, body.Tools, 5)
	for _, tool := range body.Tools {
		assert.Equal(t, domain.CategoryEnhancement, tool.Category)
	}

	rec = f.do(t, http.MethodGet, "/v1/tools?q=upscale", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[struct {
		Tools []domain.ToolDefinition `json:"tools"`
	}](t, rec)
	require.NotEmpty(t, body.Tools)
	require.Equal(t, "hd_boost", body.Tools[0].ID)

	rec = f.do(t, http.MethodGet, "/v1/tools?category=kitchen", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTool(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/tools/face_swap", "")
	require.Equal(t, http.StatusOK, rec.Code)
	tool := decode[domain.ToolDefinition](t, rec)
	require.True(t, tool.RequiresMask)
	require.True(t, tool.RequiresSecondImage)

	rec = f.do(t, http.MethodGet, "/v1/tools/unknown_tool_xyz", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	errBody := decode[errorBody](t, rec)
	require.Equal(t, domain.MessageUnknownTool, errBody.Error)
	require.Equal(t, domain.CodeNotFound, errBody.Code)
	require.NotEmpty(t, errBody.RequestID)
}

func TestGetToolSchema(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/tools/hd_boost/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)
	schema := decode[map[string]any](t, rec)
	require.Equal(t, "object", schema["type"])
	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, properties, "upscale_factor")
}

func TestCreateTask(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/tasks", `{"toolId":"hd_boost","image":"a","settings":{"upscale_factor":4}}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "/v1/tasks/task-1", rec.Header().Get("Location"))
	task := decode[domain.Task](t, rec)
	require.Equal(t, "hd_boost", task.ToolID)

	require.Len(t, f.jobs.submitted, 1)
	require.Equal(t, "a", f.jobs.submitted[0].Image)
	require.EqualValues(t, 4, f.jobs.submitted[0].Settings["upscale_factor"])
}

func TestCreateTaskRejectsBadBodies(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/tasks", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/tasks", `{"image":"a"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, f.jobs.submitted)
}

func TestTaskLifecycle(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusAccepted, f.do(t, http.MethodPost, "/v1/tasks", `{"toolId":"denoise","image":"a"}`).Code)

	rec := f.do(t, http.MethodGet, "/v1/tasks/task-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[domain.TaskPage](t, rec)
	require.Len(t, page.Tasks, 1)

	rec = f.do(t, http.MethodDelete, "/v1/tasks/task-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, domain.TaskStatusCancelled, decode[domain.Task](t, rec).Status)

	rec = f.do(t, http.MethodDelete, "/v1/tasks/task-1", "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/tasks/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/tasks?cursor=bad", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/tasks?limit=-1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/history?limit=5&tool=denoise", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, history.Query{Limit: 5, ToolID: "denoise"}, f.history.query)

	body := decode[struct {
		Records []domain.HistoryRecord `json:"records"`
	}](t, rec)
	require.Len(t, body.Records, 1)
}

func TestHistoryDisabled(t *testing.T) {
	cat, err := catalog.NewLoader(nil).LoadDefault(context.Background())
	require.NoError(t, err)
	handler := NewHandler(Options{Catalog: cat, Jobs: newFakeJobs()})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type fakeLogs struct {
	entries []domain.LogEntry
}

func (f fakeLogs) Subscribe(_ context.Context) <-chan domain.LogEntry {
	ch := make(chan domain.LogEntry, len(f.entries))
	for _, entry := range f.entries {
		ch <- entry
	}
	close(ch)
	return ch
}

func TestStreamLogs(t *testing.T) {
	cat, err := catalog.NewLoader(nil).LoadDefault(context.Background())
	require.NoError(t, err)
	handler := NewHandler(Options{
		Catalog: cat,
		Jobs:    newFakeJobs(),
		Logs: fakeLogs{entries: []domain.LogEntry{
			{Logger: "orchestrator", Level: "info", Message: "processing started", Timestamp: time.Unix(0, 0).UTC()},
			{Logger: "tasks", Level: "info", Message: "task finished", Timestamp: time.Unix(1, 0).UTC()},
		}},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/logs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	var first domain.LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "processing started", first.Message)
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
	req.Header.Set(telemetry.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	require.Equal(t, "req-123", rec.Header().Get(telemetry.RequestIDHeader))
}
