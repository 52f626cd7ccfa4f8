package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/mocks"
	"github.com/phrazzld/tarefas-api/internal/service"
	"github.com/phrazzld/tarefas-api/internal/store"
	"github.com/phrazzld/tarefas-api/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskFixture struct {
	svc   service.TaskService
	tasks *mocks.MockTaskStore
	owner uuid.UUID
	other uuid.UUID
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	accounts, tasks := mocks.NewStores()
	owner := storetest.MustCreateAccount(t, accounts, "owner@example.com")
	other := storetest.MustCreateAccount(t, accounts, "other@example.com")

	svc, err := service.NewTaskService(tasks, nil)
	require.NoError(t, err)
	return &taskFixture{svc: svc, tasks: tasks, owner: owner.ID, other: other.ID}
}

func ptr[T any](v T) *T { return &v }

func TestNewTaskServiceRequiresStore(t *testing.T) {
	t.Parallel()
	_, err := service.NewTaskService(nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("title only gets defaults", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture(t)

		task, err := f.svc.Create(ctx, f.owner, service.TaskInput{Title: "  Ler livro  "})
		require.NoError(t, err)
		assert.Equal(t, "Ler livro", task.Title)
		assert.Equal(t, "", task.Description)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
		assert.Equal(t, f.owner, task.AccountID)
		assert.False(t, task.CreatedAt.IsZero())

		got, err := f.svc.Get(ctx, f.owner, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task, got)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture(t)

		inputs := []service.TaskInput{
			{Title: ""},
			{Title: "   "},
			{Title: "ok", Status: "someday"},
			{Title: "ok", Priority: "urgent"},
		}
		for _, in := range inputs {
			_, err := f.svc.Create(ctx, f.owner, in)
			assert.ErrorIs(t, err, domain.ErrValidation, "%+v", in)
		}

		page, err := f.svc.List(ctx, f.owner, domain.TaskQuery{})
		require.NoError(t, err)
		assert.Zero(t, page.Total)
	})

	t.Run("unknown owner", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture(t)

		_, err := f.svc.Create(ctx, uuid.New(), service.TaskInput{Title: "Órfã"})
		assert.ErrorIs(t, err, service.ErrAccountNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture(t)
		f.tasks.CreateFn = func(context.Context, *domain.Task) error { return errors.New("timeout") }

		_, err := f.svc.Create(ctx, f.owner, service.TaskInput{Title: "x"})
		var svcErr *service.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "create_task", svcErr.Operation)
	})
}

func TestTaskOwnershipIsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTaskFixture(t)

	task, err := f.svc.Create(ctx, f.owner, service.TaskInput{Title: "Privada"})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.other, task.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	_, err = f.svc.Update(ctx, f.other, task.ID, domain.TaskPatch{Title: ptr("Invadida")})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	_, err = f.svc.Update(ctx, f.other, task.ID, domain.TaskPatch{})
	assert.ErrorIs(t, err, service.ErrTaskNotFound, "empty patch still checks ownership")

	assert.ErrorIs(t, f.svc.Delete(ctx, f.other, task.ID), service.ErrTaskNotFound)

	got, err := f.svc.Get(ctx, f.owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Privada", got.Title)
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTaskFixture(t)

	task, err := f.svc.Create(ctx, f.owner, service.TaskInput{
		Title:       "Original",
		Description: "desc",
		Priority:    domain.TaskPriorityHigh,
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, f.owner, task.ID, domain.TaskPatch{
		Title:  ptr("  Nova  "),
		Status: ptr(domain.TaskStatusInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, "Nova", updated.Title)
	assert.Equal(t, "desc", updated.Description)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	assert.Equal(t, domain.TaskPriorityHigh, updated.Priority)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)

	// Status may move anywhere, including back.
	updated, err = f.svc.Update(ctx, f.owner, task.ID, domain.TaskPatch{Status: ptr(domain.TaskStatusPending)})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, updated.Status)

	unchanged, err := f.svc.Update(ctx, f.owner, task.ID, domain.TaskPatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)

	_, err = f.svc.Update(ctx, f.owner, task.ID, domain.TaskPatch{Title: ptr("  ")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.Update(ctx, f.owner, task.ID, domain.TaskPatch{Status: ptr(domain.TaskStatus("bogus"))})
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := f.svc.Get(ctx, f.owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nova", stored.Title, "rejected patches leave the task untouched")

	_, err = f.svc.Update(ctx, f.owner, uuid.New(), domain.TaskPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTaskFixture(t)

	task, err := f.svc.Create(ctx, f.owner, service.TaskInput{Title: "Descartável"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.owner, task.ID))

	_, err = f.svc.Get(ctx, f.owner, task.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
	_, err = f.svc.Update(ctx, f.owner, task.ID, domain.TaskPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.owner, task.ID), service.ErrTaskNotFound)

	page, err := f.svc.List(ctx, f.owner, domain.TaskQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestListTasksPagination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTaskFixture(t)

	for i := 1; i <= 12; i++ {
		_, err := f.svc.Create(ctx, f.owner, service.TaskInput{Title: fmt.Sprintf("Tarefa %d", i)})
		require.NoError(t, err)
	}
	_, err := f.svc.Create(ctx, f.other, service.TaskInput{Title: "Alheia"})
	require.NoError(t, err)

	page, err := f.svc.List(ctx, f.owner, domain.TaskQuery{Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "Tarefa 12", page.Items[0].Title)

	page, err = f.svc.List(ctx, f.owner, domain.TaskQuery{Page: 3, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = f.svc.List(ctx, f.owner, domain.TaskQuery{Page: 4, PageSize: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 12, page.Total)

	page, err = f.svc.List(ctx, f.owner, domain.TaskQuery{Page: -1, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, domain.MaxPageSize, page.PageSize)
	assert.Len(t, page.Items, 12)
}

func TestListTasksFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTaskFixture(t)

	inputs := []service.TaskInput{
		{Title: "Relatório", Status: domain.TaskStatusDone, Priority: domain.TaskPriorityHigh},
		{Title: "Academia", Description: "treino", Status: domain.TaskStatusPending},
		{Title: "Mercado", Description: "lista do RELATÓRIO", Status: domain.TaskStatusDone},
	}
	for _, in := range inputs {
		_, err := f.svc.Create(ctx, f.owner, in)
		require.NoError(t, err)
	}

	page, err := f.svc.List(ctx, f.owner, domain.TaskQuery{Status: ptr(domain.TaskStatusDone)})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	for _, task := range page.Items {
		assert.Equal(t, domain.TaskStatusDone, task.Status)
	}

	page, err = f.svc.List(ctx, f.owner, domain.TaskQuery{Search: "relatório"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = f.svc.List(ctx, f.owner, domain.TaskQuery{Search: "  treino "})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = f.svc.List(ctx, f.owner, domain.TaskQuery{Priority: ptr(domain.TaskPriorityHigh)})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Relatório", page.Items[0].Title)
}

func TestListTasksStoreFailure(t *testing.T) {
	t.Parallel()
	f := newTaskFixture(t)
	f.tasks.ListFn = func(context.Context, uuid.UUID, domain.TaskQuery) ([]*domain.Task, int, error) {
		return nil, 0, store.NewStoreError("task", "list", "query failed", errors.New("boom"))
	}

	_, err := f.svc.List(context.Background(), f.owner, domain.TaskQuery{})
	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "list_tasks", svcErr.Operation)
}
