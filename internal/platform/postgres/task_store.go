package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/platform/logger"
	"github.com/phrazzld/tarefas-api/internal/store"
)

const taskColumns = `id, account_id, title, description, status, priority, created_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity if the owning account doesn't exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.AccountID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("task references unknown account",
				slog.String("task_id", task.ID.String()),
				slog.String("account_id", task.AccountID.String()))
			return fmt.Errorf("%w: account with ID %s not found",
				store.ErrInvalidEntity, task.AccountID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("account_id", task.AccountID.String()))
	return nil
}

// GetByOwner implements store.TaskStore.GetByOwner
func (s *PostgresTaskStore) GetByOwner(
	ctx context.Context,
	accountID, taskID uuid.UUID,
) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND account_id = $2`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, taskID, accountID))
	if err != nil {
		return nil, s.mapLookupError(ctx, "get", taskID, err)
	}
	return task, nil
}

// Update implements store.TaskStore.Update
// Nil patch fields keep their stored value through COALESCE, so the read
// and write happen in one statement.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	accountID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	query := `
		UPDATE tasks SET
			title       = COALESCE($3, title),
			description = COALESCE($4, description),
			status      = COALESCE($5, status),
			priority    = COALESCE($6, priority)
		WHERE id = $1 AND account_id = $2
		RETURNING ` + taskColumns

	row := s.db.QueryRowContext(
		ctx,
		query,
		taskID,
		accountID,
		nullable(patch.Title),
		nullable(patch.Description),
		nullable(patch.Status),
		nullable(patch.Priority),
	)
	task, err := scanTask(row)
	if err != nil {
		return nil, s.mapLookupError(ctx, "update", taskID, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task updated",
		slog.String("task_id", taskID.String()))
	return task, nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, accountID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND account_id = $2`, taskID, accountID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return store.NewStoreError("task", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(res, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Debug("task deleted", slog.String("task_id", taskID.String()))
	return nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(
	ctx context.Context,
	accountID uuid.UUID,
	q domain.TaskQuery,
) ([]*domain.Task, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildTaskFilter(accountID, q)

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks WHERE ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("task", "list", "count failed", MapError(err))
	}

	n := len(args)
	pageQuery := fmt.Sprintf(
		`SELECT %s FROM tasks WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		taskColumns, where, n+1, n+2,
	)
	args = append(args, q.PageSize, q.Offset())

	rows, err := s.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("task", "list", "query failed", MapError(err))
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

	log.Debug("listed tasks",
		slog.String("account_id", accountID.String()),
		slog.Int("returned", len(tasks)),
		slog.Int("total", total))
	return tasks, total, nil
}

// buildTaskFilter renders the WHERE clause shared by the count and page
// queries. The search argument is reused for both columns.
func buildTaskFilter(accountID uuid.UUID, q domain.TaskQuery) (string, []any) {
	conds := []string{"account_id = $1"}
	args := []any{accountID}

	if q.Status != nil {
		args = append(args, string(*q.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if q.Priority != nil {
		args = append(args, string(*q.Priority))
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, store.LikePattern(q.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(title ILIKE $%d ESCAPE '\' OR description ILIKE $%d ESCAPE '\')`, n, n))
	}

	return strings.Join(conds, " AND "), args
}

func (s *PostgresTaskStore) mapLookupError(ctx context.Context, op string, taskID uuid.UUID, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrTaskNotFound
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("task query failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
		slog.String("task_id", taskID.String()))
	return store.NewStoreError("task", op, "query failed", MapError(err))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status, priority string
	if err := row.Scan(
		&task.ID,
		&task.AccountID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.CreatedAt,
	); err != nil {
		return nil, err
	}
	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	task.CreatedAt = task.CreatedAt.UTC()
	return &task, nil
}

// nullable converts an optional string-like value into a driver argument,
// NULL when absent.
func nullable[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}
