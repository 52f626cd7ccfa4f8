package mocks

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, task *domain.Task) error
	GetByOwnerFn func(ctx context.Context, accountID, taskID uuid.UUID) (*domain.Task, error)
	UpdateFn     func(ctx context.Context, accountID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	DeleteFn     func(ctx context.Context, accountID, taskID uuid.UUID) error
	ListFn       func(ctx context.Context, accountID uuid.UUID, q domain.TaskQuery) ([]*domain.Task, int, error)

	db *memoryDB
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if _, ok := m.db.accounts[task.AccountID]; !ok {
		return fmt.Errorf("%w: account with ID %s not found", store.ErrInvalidEntity, task.AccountID)
	}
	if _, exists := m.db.tasks[task.ID]; exists {
		return fmt.Errorf("%w: task %s", store.ErrDuplicate, task.ID)
	}
	m.db.tasks[task.ID] = copyTask(task)
	return nil
}

// GetByOwner implements the TaskStore interface
func (m *MockTaskStore) GetByOwner(ctx context.Context, accountID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetByOwnerFn != nil {
		return m.GetByOwnerFn(ctx, accountID, taskID)
	}

	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	task, ok := m.db.tasks[taskID]
	if !ok || task.AccountID != accountID {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(task), nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(
	ctx context.Context,
	accountID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, accountID, taskID, patch)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	task, ok := m.db.tasks[taskID]
	if !ok || task.AccountID != accountID {
		return nil, store.ErrTaskNotFound
	}
	patch.Apply(task)
	return copyTask(task), nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, accountID, taskID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, accountID, taskID)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	task, ok := m.db.tasks[taskID]
	if !ok || task.AccountID != accountID {
		return store.ErrTaskNotFound
	}
	delete(m.db.tasks, taskID)
	return nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(
	ctx context.Context,
	accountID uuid.UUID,
	q domain.TaskQuery,
) ([]*domain.Task, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, accountID, q)
	}

	m.db.mu.RLock()
	matched := make([]*domain.Task, 0)
	for _, task := range m.db.tasks {
		if task.AccountID == accountID && q.Matches(task) {
			matched = append(matched, copyTask(task))
		}
	}
	m.db.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() > b.ID.String()
	})

	total := len(matched)
	start := min(q.Offset(), total)
	end := min(start+q.PageSize, total)
	return matched[start:end], total, nil
}
