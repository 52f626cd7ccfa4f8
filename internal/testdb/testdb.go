package testdb

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/tarefas-api/internal/config"
	"github.com/phrazzld/tarefas-api/internal/platform/migrate"
	"github.com/phrazzld/tarefas-api/internal/platform/postgres"
	"github.com/phrazzld/tarefas-api/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

// URLEnv names the PostgreSQL database used by integration tests.
const URLEnv = "TAREFAS_TEST_DATABASE_URL"

// Timeout bounds setup statements.
const Timeout = 10 * time.Second

// PostgresURL returns the integration database URL, or "" when unset.
func PostgresURL() string {
	return os.Getenv(URLEnv)
}

// OpenSQLite creates a migrated SQLite database in a temporary directory.
// It is closed when the test finishes.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "tarefas.db"))
	require.NoError(t, err, "failed to open sqlite test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrate.Up(ctx, db, config.DriverSQLite, nil), "failed to migrate sqlite test database")
	return db
}

// OpenPostgres connects to the database named by URLEnv and applies all
// migrations. The test is skipped when the variable is unset.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()
	url := PostgresURL()
	if url == "" {
		t.Skipf("%s not set", URLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	db, err := postgres.Open(ctx, url, 5)
	require.NoError(t, err, "failed to connect to postgres test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrate.Up(ctx, db, config.DriverPostgres, nil), "failed to migrate postgres test database")
	return db
}

// Truncate empties every application table.
func Truncate(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	// Children first: SQLite has no TRUNCATE and enforces the foreign key.
	for _, table := range []string{"tasks", "accounts"} {
		_, err := db.ExecContext(ctx, "DELETE FROM "+table)
		require.NoError(t, err, "failed to empty %s", table)
	}
}
