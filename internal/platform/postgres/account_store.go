package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/platform/logger"
	"github.com/phrazzld/tarefas-api/internal/store"
)

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the AccountStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresAccountStore(db *sql.DB, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

// Create implements store.AccountStore.Create
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if account.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}

	query := `
		INSERT INTO accounts (id, name, email, hashed_password, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Name,
		account.Email,
		account.HashedPassword,
		account.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("account email already registered",
				slog.String("account_id", account.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return store.NewStoreError("account", "create", "insert failed", MapError(err))
	}

	log.Info("account created", slog.String("account_id", account.ID.String()))
	return nil
}

// GetByID implements store.AccountStore.GetByID
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, name, email, hashed_password, created_at
		FROM accounts
		WHERE id = $1
	`
	return s.getOne(ctx, query, id)
}

// GetByEmail implements store.AccountStore.GetByEmail
func (s *PostgresAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT id, name, email, hashed_password, created_at
		FROM accounts
		WHERE email = $1
	`
	return s.getOne(ctx, query, domain.NormalizeEmail(email))
}

func (s *PostgresAccountStore) getOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.HashedPassword,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAccountNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query account",
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("account", "get", "query failed", MapError(err))
	}

	account.CreatedAt = account.CreatedAt.UTC()
	return &account, nil
}

// Delete implements store.AccountStore.Delete
// Tasks are removed explicitly in the same transaction so the result does
// not depend on the foreign key's ON DELETE behaviour.
func (s *PostgresAccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removedTasks int64
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE account_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete tasks: %w", MapError(err))
		}
		removedTasks, _ = res.RowsAffected()

		res, err = tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete account: %w", MapError(err))
		}
		return CheckRowsAffected(res, store.ErrAccountNotFound)
	})
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return store.ErrAccountNotFound
		}
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return store.NewStoreError("account", "delete", "transaction failed", err)
	}

	log.Info("account deleted",
		slog.String("account_id", id.String()),
		slog.Int64("tasks_removed", removedTasks))
	return nil
}
