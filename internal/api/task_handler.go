package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tarefas-api/internal/api/shared"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/platform/logger"
	"github.com/phrazzld/tarefas-api/internal/platform/metrics"
	"github.com/phrazzld/tarefas-api/internal/service"
)

// TaskHandler handles the /api/tarefas endpoints. Every operation is scoped
// to the authenticated account.
type TaskHandler struct {
	tasks   service.TaskService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewTaskHandler creates a new TaskHandler. metrics may be nil.
func NewTaskHandler(tasks service.TaskService, m *metrics.Metrics, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:   tasks,
		metrics: m,
		logger:  logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/tarefas. The owner is always the caller;
// any owner field in the body is ignored.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromRequest(w, r)
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidBody, err)
		return
	}

	input, err := taskInputFromRequest(req)
	if err != nil {
		h.recordFailure("create", err)
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), accountID, input)
	if err != nil {
		h.recordFailure("create", err)
		HandleAPIError(w, r, err)
		return
	}

	h.metrics.IncTaskOperation("create", resultSuccess)
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /api/tarefas.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromRequest(w, r)
	if !ok {
		return
	}

	q, err := parseTaskQuery(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	page, err := h.tasks.List(r.Context(), accountID, q)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("listed tasks",
		slog.String("account_id", accountID.String()),
		slog.Int("page", page.Page),
		slog.Int("total", page.Total))
	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page))
}

// GetTask handles GET /api/tarefas/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromRequest(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), accountID, taskID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /api/tarefas/{id}. Only fields present in the body
// change.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromRequest(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidBody, err)
		return
	}

	patch, err := taskPatchFromRequest(req)
	if err != nil {
		h.recordFailure("update", err)
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), accountID, taskID, patch)
	if err != nil {
		h.recordFailure("update", err)
		HandleAPIError(w, r, err)
		return
	}

	h.metrics.IncTaskOperation("update", resultSuccess)
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tarefas/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromRequest(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), accountID, taskID); err != nil {
		h.recordFailure("delete", err)
		HandleAPIError(w, r, err)
		return
	}

	h.metrics.IncTaskOperation("delete", resultSuccess)
	shared.RespondWithMessage(w, r, http.StatusOK, MsgTaskDeleted)
}

func (h *TaskHandler) recordFailure(operation string, err error) {
	h.metrics.IncTaskOperation(operation, outcome(err))
}

func taskInputFromRequest(req TaskRequest) (service.TaskInput, error) {
	var input service.TaskInput
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Description != nil {
		input.Description = *req.Description
	}

	status, err := statusFromRequest(req)
	if err != nil {
		return input, err
	}
	if status != nil {
		input.Status = *status
	}

	priority, err := priorityFromRequest(req)
	if err != nil {
		return input, err
	}
	if priority != nil {
		input.Priority = *priority
	}
	return input, nil
}

func taskPatchFromRequest(req TaskRequest) (domain.TaskPatch, error) {
	status, err := statusFromRequest(req)
	if err != nil {
		return domain.TaskPatch{}, err
	}
	priority, err := priorityFromRequest(req)
	if err != nil {
		return domain.TaskPatch{}, err
	}
	return domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
	}, nil
}
