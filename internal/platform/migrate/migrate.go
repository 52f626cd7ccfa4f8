// Package migrate applies the embedded goose migrations for the configured
// database driver.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/phrazzld/tarefas-api/internal/config"
	"github.com/phrazzld/tarefas-api/internal/platform/postgres"
	"github.com/phrazzld/tarefas-api/internal/platform/sqlite"
	"github.com/pressly/goose/v3"
)

// Supported migration commands.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// Commands lists every command accepted by Run.
var Commands = []string{CommandUp, CommandDown, CommandReset, CommandStatus, CommandVersion}

// NewProvider builds a goose provider over the migrations embedded for driver.
// The provider does not own db; callers close it themselves.
func NewProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	var (
		dialect  goose.Dialect
		embedded fs.FS
	)
	switch driver {
	case config.DriverPostgres:
		dialect, embedded = goose.DialectPostgres, postgres.Migrations
	case config.DriverSQLite:
		dialect, embedded = goose.DialectSQLite3, sqlite.Migrations
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	migrations, err := fs.Sub(embedded, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, driver string, log *slog.Logger) error {
	return Run(ctx, db, driver, CommandUp, log)
}

// Run executes a migration command and logs its outcome.
func Run(ctx context.Context, db *sql.DB, driver, command string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "migrations"), slog.String("command", command))

	provider, err := NewProvider(db, driver)
	if err != nil {
		return err
	}

	start := time.Now()

	switch command {
	case CommandUp:
		results, err := provider.Up(ctx)
		logResults(log, results...)
		if err != nil {
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
		if len(results) == 0 {
			log.Info("no pending migrations")
		}
	case CommandDown:
		result, err := provider.Down(ctx)
		if result != nil {
			logResults(log, result)
		}
		if err != nil {
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
	case CommandReset:
		results, err := provider.DownTo(ctx, 0)
		logResults(log, results...)
		if err != nil {
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
	case CommandStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
		for _, s := range statuses {
			attrs := []any{
				slog.Int64("version", s.Source.Version),
				slog.String("file", s.Source.Path),
				slog.String("state", string(s.State)),
			}
			if !s.AppliedAt.IsZero() {
				attrs = append(attrs, slog.Time("applied_at", s.AppliedAt))
			}
			log.Info("migration status", attrs...)
		}
	case CommandVersion:
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
		log.Info("current database version", slog.Int64("version", version))
	default:
		return fmt.Errorf("unknown migration command: %s (expected one of %v)", command, Commands)
	}

	log.Info("migration command completed",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

func logResults(log *slog.Logger, results ...*goose.MigrationResult) {
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		attrs := []any{
			slog.Int64("version", r.Source.Version),
			slog.String("file", r.Source.Path),
			slog.String("direction", r.Direction),
			slog.Int64("duration_ms", r.Duration.Milliseconds()),
		}
		if r.Error != nil {
			log.Error("migration failed", append(attrs, slog.String("error", r.Error.Error()))...)
			continue
		}
		log.Info("migration applied", attrs...)
	}
}
