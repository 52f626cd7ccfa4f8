package postgres_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/platform/postgres"
	"github.com/phrazzld/tarefas-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskRowColumns = []string{
	"id", "account_id", "title", "description", "status", "priority", "created_at",
}

func newMockTaskStore(t *testing.T) (*postgres.PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return postgres.NewPostgresTaskStore(db, nil), mock
}

func TestPostgresTaskStore_CreateUnknownAccount(t *testing.T) {
	t.Parallel()
	s, mock := newMockTaskStore(t)

	task, err := domain.NewTask(uuid.New(), "Comprar pão", "", "", "")
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WillReturnError(newPgError("23503"))

	err = s.Create(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_CreateRejectsInvalidTask(t *testing.T) {
	t.Parallel()
	s, mock := newMockTaskStore(t)

	err := s.Create(context.Background(), &domain.Task{ID: uuid.New(), AccountID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_GetByOwnerScopesByAccount(t *testing.T) {
	t.Parallel()
	s, mock := newMockTaskStore(t)

	owner, other, taskID := uuid.New(), uuid.New(), uuid.New()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND account_id = $2")).
		WithArgs(taskID, owner).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(taskID.String(), owner.String(), "Estudar", "Go", "pending", "high", created))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND account_id = $2")).
		WithArgs(taskID, other).
		WillReturnError(sql.ErrNoRows)

	task, err := s.GetByOwner(context.Background(), owner, taskID)
	require.NoError(t, err)
	assert.Equal(t, taskID, task.ID)
	assert.Equal(t, domain.TaskPriorityHigh, task.Priority)
	assert.Equal(t, created, task.CreatedAt)

	_, err = s.GetByOwner(context.Background(), other, taskID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_UpdatePassesNullForAbsentFields(t *testing.T) {
	t.Parallel()
	s, mock := newMockTaskStore(t)

	owner, taskID := uuid.New(), uuid.New()
	done := domain.TaskStatusDone

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE($3, title)")).
		WithArgs(taskID, owner, nil, nil, "done", nil).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(taskID.String(), owner.String(), "Estudar", "", "done", "medium", time.Now()))

	task, err := s.Update(context.Background(), owner, taskID, domain.TaskPatch{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDone, task.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_UpdateMissing(t *testing.T) {
	t.Parallel()
	s, mock := newMockTaskStore(t)

	title := "novo"
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks SET")).
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	_, err := s.Update(context.Background(), uuid.New(), uuid.New(), domain.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_Delete(t *testing.T) {
	t.Parallel()
	s, mock := newMockTaskStore(t)

	owner, taskID := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1 AND account_id = $2")).
		WithArgs(taskID, owner).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1 AND account_id = $2")).
		WithArgs(taskID, owner).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Delete(context.Background(), owner, taskID))
	assert.ErrorIs(t, s.Delete(context.Background(), owner, taskID), store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_ListBuildsFilters(t *testing.T) {
	t.Parallel()
	s, mock := newMockTaskStore(t)

	owner := uuid.New()
	status := domain.TaskStatusInProgress
	priority := domain.TaskPriorityLow
	q := domain.TaskQuery{
		Page:     2,
		PageSize: 3,
		Search:   "50%",
		Status:   &status,
		Priority: &priority,
	}.Normalize()

	where := `account_id = $1 AND status = $2 AND priority = $3 AND ` +
		`(title ILIKE $4 ESCAPE '\' OR description ILIKE $4 ESCAPE '\')`

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks WHERE " + where)).
		WithArgs(owner, "in_progress", "low", `%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(where + " ORDER BY created_at DESC, id DESC LIMIT $5 OFFSET $6")).
		WithArgs(owner, "in_progress", "low", `%50\%%`, 3, 3).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(id.String(), owner.String(), "Meta 50%", "", "in_progress", "low", time.Now()))

	tasks, total, err := s.List(context.Background(), owner, q)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_ListWithoutFilters(t *testing.T) {
	t.Parallel()
	s, mock := newMockTaskStore(t)

	owner := uuid.New()
	q := domain.TaskQuery{}.Normalize()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks WHERE account_id = $1")).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE account_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3")).
		WithArgs(owner, domain.DefaultPageSize, 0).
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	tasks, total, err := s.List(context.Background(), owner, q)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}
