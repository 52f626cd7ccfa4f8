//go:build integration

package postgres_test

import (
	"testing"

	"github.com/phrazzld/tarefas-api/internal/platform/postgres"
	"github.com/phrazzld/tarefas-api/internal/store"
	"github.com/phrazzld/tarefas-api/internal/store/storetest"
	"github.com/phrazzld/tarefas-api/internal/testdb"
)

// TestStoresIntegration runs the shared store suite against a real
// PostgreSQL database. Each subtest starts from empty tables, so the suite
// must not run in parallel with other users of that database.
func TestStoresIntegration(t *testing.T) {
	db := testdb.OpenPostgres(t)

	storetest.Run(t, func(t *testing.T) (store.AccountStore, store.TaskStore) {
		testdb.Truncate(t, db)
		return postgres.NewPostgresAccountStore(db, nil), postgres.NewPostgresTaskStore(db, nil)
	})
}
