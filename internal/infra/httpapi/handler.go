// Package httpapi exposes the catalog and processing jobs as a JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"versa/internal/domain"
	"versa/internal/infra/history"
	"versa/internal/infra/telemetry"
	"versa/internal/infra/validation"
)

const maxRequestBytes = 32 << 20

// Jobs runs processing requests in the background.
type Jobs interface {
	Submit(ctx context.Context, req domain.ProcessRequest) (domain.Task, error)
	Task(ctx context.Context, taskID string) (domain.Task, error)
	Tasks(ctx context.Context, cursor string, limit int) (domain.TaskPage, error)
	Cancel(ctx context.Context, taskID string) error
}

// History lists past transformations.
type History interface {
	History(ctx context.Context, query history.Query) ([]domain.HistoryRecord, error)
}

// LogStream publishes live log entries.
type LogStream interface {
	Subscribe(ctx context.Context) <-chan domain.LogEntry
}

type Options struct {
	Catalog domain.ToolCatalog
	Jobs    Jobs
	History History
	Logs    LogStream
	Logger  *zap.Logger
}

type Handler struct {
	catalog domain.ToolCatalog
	jobs    Jobs
	history History
	logs    LogStream
	logger  *zap.Logger
	mux     *http.ServeMux
}

func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		catalog: opts.Catalog,
		jobs:    opts.Jobs,
		history: opts.History,
		logs:    opts.Logs,
		logger:  logger.Named("httpapi").With(zap.String(telemetry.FieldLogSource, telemetry.LogSourceHTTP)),
		mux:     http.NewServeMux(),
	}
	h.routes()
	return h
}

func (h *Handler) routes() {
	h.mux.HandleFunc("GET /v1/categories", h.listCategories)
	h.mux.HandleFunc("GET /v1/tools", h.listTools)
	h.mux.HandleFunc("GET /v1/tools/{id}", h.getTool)
	h.mux.HandleFunc("GET /v1/tools/{id}/schema", h.getToolSchema)
	h.mux.HandleFunc("POST /v1/tasks", h.createTask)
	h.mux.HandleFunc("GET /v1/tasks", h.listTasks)
	h.mux.HandleFunc("GET /v1/tasks/{id}", h.getTask)
	h.mux.HandleFunc("DELETE /v1/tasks/{id}", h.cancelTask)
	h.mux.HandleFunc("GET /v1/history", h.listHistory)
	h.mux.HandleFunc("GET /v1/logs", h.streamLogs)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, meta := telemetry.EnsureHTTPRequestMeta(r)
	w.Header().Set(telemetry.RequestIDHeader, meta.RequestID)
	h.mux.ServeHTTP(w, r.WithContext(ctx))
}

type categoryView struct {
	ID    domain.Category `json:"id"`
	Label string          `json:"label"`
	Tools int             `json:"tools"`
}

func (h *Handler) listCategories(w http.ResponseWriter, _ *http.Request) {
	counts := lo.CountValuesBy(h.catalog.SearchByText("", domain.DefaultLocale), func(tool domain.ToolDefinition) domain.Category {
		return tool.Category
	})
	out := lo.Map(h.catalog.ListCategories(), func(category domain.Category, _ int) categoryView {
		return categoryView{ID: category, Label: category.Label(), Tools: counts[category]}
	})
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (h *Handler) listTools(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	category := domain.Category(strings.ToLower(strings.TrimSpace(query.Get("category"))))
	if category != "" && !category.Valid() {
		h.writeError(w, r, domain.E(domain.CodeInvalidArgument, "httpapi.listTools", "unknown category", nil))
		return
	}
	locale := query.Get("locale")
	tools := h.catalog.SearchByText(query.Get("q"), locale)
	if category != "" {
		tools = lo.Filter(tools, func(tool domain.ToolDefinition, _ int) bool {
			return tool.Category == category
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": tools})
}

func (h *Handler) getTool(w http.ResponseWriter, r *http.Request) {
	tool, ok := h.catalog.GetToolByID(r.PathValue("id"))
	if !ok {
		h.writeError(w, r, domain.E(domain.CodeNotFound, "httpapi.getTool", domain.MessageUnknownTool, domain.ErrUnknownTool))
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

func (h *Handler) getToolSchema(w http.ResponseWriter, r *http.Request) {
	tool, ok := h.catalog.GetToolByID(r.PathValue("id"))
	if !ok {
		h.writeError(w, r, domain.E(domain.CodeNotFound, "httpapi.getToolSchema", domain.MessageUnknownTool, domain.ErrUnknownTool))
		return
	}
	schema, err := validation.SettingsSchema(tool)
	if err != nil {
		h.writeError(w, r, domain.Wrap(domain.CodeInternal, "httpapi.getToolSchema", err))
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req domain.ProcessRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&req); err != nil {
		h.writeError(w, r, domain.E(domain.CodeInvalidArgument, "httpapi.createTask", "invalid request body", err))
		return
	}
	if strings.TrimSpace(req.ToolID) == "" {
		h.writeError(w, r, domain.E(domain.CodeInvalidArgument, "httpapi.createTask", "toolId is required", nil))
		return
	}
	task, err := h.jobs.Submit(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/tasks/"+task.TaskID)
	writeJSON(w, http.StatusAccepted, task)
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := h.jobs.Tasks(r.Context(), r.URL.Query().Get("cursor"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.jobs.Task(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) cancelTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.jobs.Cancel(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	task, err := h.jobs.Task(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.writeError(w, r, domain.E(domain.CodeUnavailable, "httpapi.listHistory", "history is disabled", nil))
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	records, err := h.history.History(r.Context(), history.Query{Limit: limit, ToolID: r.URL.Query().Get("tool")})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

// streamLogs writes newline-delimited JSON entries until the client leaves.
func (h *Handler) streamLogs(w http.ResponseWriter, r *http.Request) {
	if h.logs == nil {
		h.writeError(w, r, domain.E(domain.CodeUnavailable, "httpapi.streamLogs", "log streaming is disabled", nil))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, r, domain.E(domain.CodeUnavailable, "httpapi.streamLogs", "streaming unsupported", nil))
		return
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	encoder := json.NewEncoder(w)
	for entry := range h.logs.Subscribe(r.Context()) {
		if err := encoder.Encode(entry); err != nil {
			return
		}
		flusher.Flush()
	}
}

type errorBody struct {
	Error     string           `json:"error"`
	Code      domain.ErrorCode `json:"code"`
	RequestID string           `json:"requestId,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, ok := domain.CodeFrom(err)
	if !ok {
		code = domain.CodeInternal
	}
	status := statusFor(code)
	message := err.Error()
	var domainErr *domain.Error
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		message = domainErr.Message
	}
	logger := telemetry.LoggerWithRequest(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
	}
	requestID, _ := telemetry.RequestIDFromContext(r.Context())
	writeJSON(w, status, errorBody{Error: message, Code: code, RequestID: requestID})
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeInvalidArgument:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeFailedPrecond:
		return http.StatusConflict
	case domain.CodeUnavailable:
		return http.StatusServiceUnavailable
	case domain.CodeCanceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func intParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, domain.E(domain.CodeInvalidArgument, "httpapi.param", name+" must be a non-negative integer", err)
	}
	return value, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
