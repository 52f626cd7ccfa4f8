package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/store"
)

// MockAccountStore implements store.AccountStore for testing
type MockAccountStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, account *domain.Account) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.Account, error)
	DeleteFn     func(ctx context.Context, id uuid.UUID) error

	db *memoryDB
}

var _ store.AccountStore = (*MockAccountStore)(nil)

// NewMockAccountStore creates a standalone account store with empty data.
func NewMockAccountStore() *MockAccountStore {
	accounts, _ := NewStores()
	return accounts
}

// Create implements the AccountStore interface
func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}
	if account.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	email := domain.NormalizeEmail(account.Email)
	if _, exists := m.db.emails[email]; exists {
		return store.ErrEmailExists
	}

	stored := copyAccount(account)
	stored.Email = email
	m.db.accounts[stored.ID] = stored
	m.db.emails[email] = stored.ID
	return nil
}

// GetByID implements the AccountStore interface
func (m *MockAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	account, ok := m.db.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return copyAccount(account), nil
}

// GetByEmail implements the AccountStore interface
func (m *MockAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	id, ok := m.db.emails[domain.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return copyAccount(m.db.accounts[id]), nil
}

// Delete implements the AccountStore interface
func (m *MockAccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	account, ok := m.db.accounts[id]
	if !ok {
		return store.ErrAccountNotFound
	}
	for taskID, task := range m.db.tasks {
		if task.AccountID == id {
			delete(m.db.tasks, taskID)
		}
	}
	delete(m.db.emails, account.Email)
	delete(m.db.accounts, id)
	return nil
}
