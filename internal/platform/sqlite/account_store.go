package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/platform/logger"
	"github.com/phrazzld/tarefas-api/internal/store"
)

// AccountStore implements store.AccountStore using SQLite.
type AccountStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewAccountStore creates a new SQLite-backed AccountStore.
func NewAccountStore(db *sql.DB, logger *slog.Logger) *AccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

var _ store.AccountStore = (*AccountStore)(nil)

func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	if account.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, email, hashed_password, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		account.ID, account.Name, account.Email, account.HashedPassword,
		account.CreatedAt.UnixNano(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return store.NewStoreError("account", "create", "insert failed", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("account created",
		slog.String("account_id", account.ID.String()))
	return nil
}

func (s *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.getOne(ctx,
		`SELECT id, name, email, hashed_password, created_at FROM accounts WHERE id = ?`, id)
}

func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.getOne(ctx,
		`SELECT id, name, email, hashed_password, created_at FROM accounts WHERE email = ?`,
		domain.NormalizeEmail(email))
}

func (s *AccountStore) getOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	var createdAt int64
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID, &account.Name, &account.Email, &account.HashedPassword, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAccountNotFound
		}
		return nil, store.NewStoreError("account", "get", "query failed", err)
	}
	account.CreatedAt = time.Unix(0, createdAt).UTC()
	return &account, nil
}

// Delete removes the account's tasks and then the account in one transaction.
func (s *AccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE account_id = ?`, id); err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return store.ErrAccountNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return store.ErrAccountNotFound
		}
		return store.NewStoreError("account", "delete", "transaction failed", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("account deleted",
		slog.String("account_id", id.String()))
	return nil
}
