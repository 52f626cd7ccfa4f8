package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/platform/logger"
	"github.com/phrazzld/tarefas-api/internal/store"
)

// TaskInput carries the fields of a task being created. Empty Status and
// Priority take their defaults.
type TaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
}

// TaskService manages an account's tasks. Every method is scoped to the
// calling account.
type TaskService interface {
	// Create stores a new task owned by accountID.
	Create(ctx context.Context, accountID uuid.UUID, input TaskInput) (*domain.Task, error)

	// Get returns one of accountID's tasks.
	Get(ctx context.Context, accountID, taskID uuid.UUID) (*domain.Task, error)

	// List returns one page of accountID's tasks, newest first.
	List(ctx context.Context, accountID uuid.UUID, q domain.TaskQuery) (*domain.TaskPage, error)

	// Update changes only the fields present in patch.
	Update(ctx context.Context, accountID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete permanently removes one of accountID's tasks.
	Delete(ctx context.Context, accountID, taskID uuid.UUID) error
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if tasks is nil.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService.
func (s *taskServiceImpl) Create(
	ctx context.Context,
	accountID uuid.UUID,
	input TaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(accountID, input.Title, input.Description, input.Status, input.Priority)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			log.Debug("task rejected by validation", slog.String("error", err.Error()))
			return nil, err
		}
		return nil, NewServiceError("create_task", "failed to build task", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			log.Warn("task owner does not exist", slog.String("account_id", accountID.String()))
			return nil, ErrAccountNotFound
		}
		log.Error("failed to save task",
			slog.String("account_id", accountID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("account_id", accountID.String()))
	return task, nil
}

// Get implements TaskService.
func (s *taskServiceImpl) Get(ctx context.Context, accountID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByOwner(ctx, accountID, taskID)
	if err != nil {
		return nil, s.mapStoreError(ctx, "get_task", taskID, err)
	}
	return task, nil
}

// List implements TaskService.
func (s *taskServiceImpl) List(
	ctx context.Context,
	accountID uuid.UUID,
	q domain.TaskQuery,
) (*domain.TaskPage, error) {
	q = q.Normalize()

	items, total, err := s.tasks.List(ctx, accountID, q)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("account_id", accountID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("list_tasks", "failed to list tasks", err)
	}

	return domain.NewTaskPage(items, total, q), nil
}

// Update implements TaskService.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	accountID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	// Nothing to change; still enforce ownership.
	if patch.IsEmpty() {
		return s.Get(ctx, accountID, taskID)
	}

	task, err := s.tasks.Update(ctx, accountID, taskID, patch)
	if err != nil {
		return nil, s.mapStoreError(ctx, "update_task", taskID, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated",
		slog.String("task_id", taskID.String()))
	return task, nil
}

// Delete implements TaskService.
func (s *taskServiceImpl) Delete(ctx context.Context, accountID, taskID uuid.UUID) error {
	if err := s.tasks.Delete(ctx, accountID, taskID); err != nil {
		return s.mapStoreError(ctx, "delete_task", taskID, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("task_id", taskID.String()))
	return nil
}

func (s *taskServiceImpl) mapStoreError(ctx context.Context, op string, taskID uuid.UUID, err error) error {
	if errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("task store failure",
		slog.String("operation", op),
		slog.String("task_id", taskID.String()),
		slog.String("error", err.Error()))
	return NewServiceError(op, "store failure", err)
}
