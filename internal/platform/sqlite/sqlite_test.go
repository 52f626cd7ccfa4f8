package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/tarefas-api/internal/platform/migrate"
	"github.com/phrazzld/tarefas-api/internal/platform/sqlite"
	"github.com/phrazzld/tarefas-api/internal/store"
	"github.com/phrazzld/tarefas-api/internal/store/storetest"
	"github.com/phrazzld/tarefas-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T) (store.AccountStore, store.TaskStore) {
	t.Helper()
	db := testdb.OpenSQLite(t)
	return sqlite.NewAccountStore(db, nil), sqlite.NewTaskStore(db, nil)
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sqlite.Open(ctx, dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = os.Stat(dbPath)
	require.NoError(t, err, "database file should exist")

	var fkEnabled int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fkEnabled))
	assert.Equal(t, 1, fkEnabled)

	var journal string
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journal))
	assert.Equal(t, "wal", journal)
}

func TestOpenInMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, migrate.Up(ctx, db, "sqlite", nil))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&n))
	assert.Zero(t, n)
}

func TestStores(t *testing.T) {
	storetest.Run(t, newStores)
}

func TestConstraintViolations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	require.NoError(t, migrate.Up(ctx, db, "sqlite", nil))

	_, err = db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, email, hashed_password, created_at) VALUES ('a', 'A', 'x@y.z', 'h', 0)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, email, hashed_password, created_at) VALUES ('b', 'B', 'x@y.z', 'h', 0)`)
	assert.True(t, sqlite.IsUniqueViolation(err))
	assert.False(t, sqlite.IsForeignKeyViolation(err))

	_, err = db.ExecContext(ctx,
		`INSERT INTO tasks (id, account_id, title, created_at) VALUES ('t', 'missing', 'T', 0)`)
	assert.True(t, sqlite.IsForeignKeyViolation(err))
	assert.False(t, sqlite.IsUniqueViolation(err))

	_, err = db.ExecContext(ctx,
		`INSERT INTO tasks (id, account_id, title, status, created_at) VALUES ('t', 'a', 'T', 'someday', 0)`)
	assert.Error(t, err, "status check constraint")
}
