package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/api/middleware"
	"github.com/phrazzld/tarefas-api/internal/api/shared"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/service"
)

// accountFromRequest returns the authenticated account placed in the
// context by the auth middleware, writing a 401 when it is absent.
func accountFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	accountID, ok := middleware.GetAccountID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, MsgInvalidToken)
		return uuid.Nil, false
	}
	return accountID, true
}

// taskIDFromPath parses the {id} path parameter. A malformed ID cannot name
// any task, so it is reported as not found.
func taskIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, MsgTaskNotFound, service.ErrTaskNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads a positive integer query parameter. Missing, malformed and
// non-positive values yield 0 so the query falls back to its default.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// parseTaskQuery builds a TaskQuery from page, per_page, q, status and
// prioridade. Unknown filter values are validation errors.
func parseTaskQuery(r *http.Request) (domain.TaskQuery, error) {
	values := r.URL.Query()

	status, err := domain.ParseStatusFilter(values.Get("status"))
	if err != nil {
		return domain.TaskQuery{}, err
	}
	priority, err := domain.ParsePriorityFilter(values.Get("prioridade"))
	if err != nil {
		return domain.TaskQuery{}, err
	}

	return domain.TaskQuery{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "per_page"),
		Search:   values.Get("q"),
		Status:   status,
		Priority: priority,
	}.Normalize(), nil
}

// statusFromRequest resolves the requested status: an explicit status
// wins over the legacy concluida flag. Neither present yields nil.
func statusFromRequest(req TaskRequest) (*domain.TaskStatus, error) {
	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		return &status, nil
	}
	if req.Concluida != nil {
		status := domain.StatusFromCompleted(*req.Concluida)
		return &status, nil
	}
	return nil, nil
}

func priorityFromRequest(req TaskRequest) (*domain.TaskPriority, error) {
	if req.Priority == nil {
		return nil, nil
	}
	priority, err := domain.ParseTaskPriority(*req.Priority)
	if err != nil {
		return nil, err
	}
	return &priority, nil
}
