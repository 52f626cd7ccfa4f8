package mocks

import (
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
)

// memoryDB is the state shared by a MockAccountStore and MockTaskStore pair.
type memoryDB struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
	emails   map[string]uuid.UUID
	tasks    map[uuid.UUID]*domain.Task
}

// NewStores returns an account store and a task store backed by the same
// in-memory data, so deleting an account also removes its tasks.
func NewStores() (*MockAccountStore, *MockTaskStore) {
	db := &memoryDB{
		accounts: make(map[uuid.UUID]*domain.Account),
		emails:   make(map[string]uuid.UUID),
		tasks:    make(map[uuid.UUID]*domain.Task),
	}
	return &MockAccountStore{db: db}, &MockTaskStore{db: db}
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	c.Password = ""
	return &c
}

func copyTask(t *domain.Task) *domain.Task {
	c := *t
	return &c
}
