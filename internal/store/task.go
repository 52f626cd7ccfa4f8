package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Every lookup is scoped by owner: a task that exists but belongs to a
// different account is reported as ErrTaskNotFound, exactly like a task
// that does not exist at all.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the owning account does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByOwner retrieves the task with taskID owned by accountID.
	GetByOwner(ctx context.Context, accountID, taskID uuid.UUID) (*domain.Task, error)

	// Update applies patch to the task with taskID owned by accountID in a
	// single statement and returns the stored result.
	// The patch must already be validated and normalised.
	Update(ctx context.Context, accountID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete permanently removes the task with taskID owned by accountID.
	Delete(ctx context.Context, accountID, taskID uuid.UUID) error

	// List returns one page of accountID's tasks matching q, newest first,
	// together with the total number of matching tasks. q must be normalised.
	List(ctx context.Context, accountID uuid.UUID, q domain.TaskQuery) ([]*domain.Task, int, error)
}
