package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/platform/logger"
	"github.com/phrazzld/tarefas-api/internal/store"
)

const taskColumns = `id, account_id, title, description, status, priority, created_at`

// TaskStore implements store.TaskStore using SQLite.
type TaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTaskStore creates a new SQLite-backed TaskStore.
func NewTaskStore(db *sql.DB, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.AccountID, task.Title, task.Description,
		string(task.Status), string(task.Priority), task.CreatedAt.UnixNano(),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: account with ID %s not found", store.ErrInvalidEntity, task.AccountID)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "insert failed", err)
	}
	return nil
}

func (s *TaskStore) GetByOwner(ctx context.Context, accountID, taskID uuid.UUID) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND account_id = ?`, taskID, accountID)
	task, err := scanTask(row)
	if err != nil {
		return nil, lookupError("get", err)
	}
	return task, nil
}

// Update applies the patch with COALESCE so absent fields keep their value.
func (s *TaskStore) Update(
	ctx context.Context,
	accountID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET
			title       = COALESCE(?, title),
			description = COALESCE(?, description),
			status      = COALESCE(?, status),
			priority    = COALESCE(?, priority)
		 WHERE id = ? AND account_id = ?
		 RETURNING `+taskColumns,
		nullable(patch.Title),
		nullable(patch.Description),
		nullable(patch.Status),
		nullable(patch.Priority),
		taskID,
		accountID,
	)
	task, err := scanTask(row)
	if err != nil {
		return nil, lookupError("update", err)
	}
	return task, nil
}

func (s *TaskStore) Delete(ctx context.Context, accountID, taskID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND account_id = ?`, taskID, accountID)
	if err != nil {
		return store.NewStoreError("task", "delete", "delete failed", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return store.NewStoreError("task", "delete", "rows affected", err)
	}
	if n == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) List(
	ctx context.Context,
	accountID uuid.UUID,
	q domain.TaskQuery,
) ([]*domain.Task, int, error) {
	where, args := buildTaskFilter(accountID, q)

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, store.NewStoreError("task", "list", "count failed", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE `+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, q.PageSize, q.Offset())...)
	if err != nil {
		return nil, 0, store.NewStoreError("task", "list", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0, q.PageSize)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, store.NewStoreError("task", "list", "scan failed", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, store.NewStoreError("task", "list", "row iteration failed", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("listed tasks",
		slog.String("account_id", accountID.String()),
		slog.Int("returned", len(tasks)),
		slog.Int("total", total))
	return tasks, total, nil
}

// buildTaskFilter renders the WHERE clause shared by the count and page
// queries. Search compares Unicode-folded text on both sides.
func buildTaskFilter(accountID uuid.UUID, q domain.TaskQuery) (string, []any) {
	conds := []string{"account_id = ?"}
	args := []any{accountID}

	if q.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*q.Status))
	}
	if q.Priority != nil {
		conds = append(conds, "priority = ?")
		args = append(args, string(*q.Priority))
	}
	if q.Search != "" {
		pattern := store.LikePattern(strings.ToLower(q.Search))
		conds = append(conds, `(`+FoldFunc+`(title) LIKE ? ESCAPE '\' OR `+FoldFunc+`(description) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	return strings.Join(conds, " AND "), args
}

func lookupError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrTaskNotFound
	}
	return store.NewStoreError("task", op, "query failed", err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status, priority string
	var createdAt int64
	if err := row.Scan(
		&task.ID,
		&task.AccountID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&createdAt,
	); err != nil {
		return nil, err
	}
	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	task.CreatedAt = time.Unix(0, createdAt).UTC()
	return &task, nil
}

func nullable[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}
