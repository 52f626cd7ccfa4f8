package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tarefas-api/internal/config"
	"github.com/phrazzld/tarefas-api/internal/platform/metrics"
	"github.com/phrazzld/tarefas-api/internal/platform/postgres"
	"github.com/phrazzld/tarefas-api/internal/platform/sqlite"
	"github.com/phrazzld/tarefas-api/internal/service"
	"github.com/phrazzld/tarefas-api/internal/service/auth"
	"github.com/phrazzld/tarefas-api/internal/store"
)

// application holds the shared dependencies of the server.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	accountStore store.AccountStore
	taskStore    store.TaskStore

	jwtService     auth.JWTService
	accountService service.AccountService
	taskService    service.TaskService
}

// newApplication wires stores and services for the configured driver.
// The database must already be open and migrated.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		app.accountStore = postgres.NewPostgresAccountStore(db, logger)
		app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	case config.DriverSQLite:
		app.accountStore = sqlite.NewAccountStore(db, logger)
		app.taskStore = sqlite.NewTaskStore(db, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	app.accountService, err = service.NewAccountService(app.accountStore, hasher, app.jwtService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize account service: %w", err)
	}
	app.taskService, err = service.NewTaskService(app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task service: %w", err)
	}

	logger.Info("application initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes),
		slog.Int("bcrypt_cost", cfg.Auth.BcryptCost))
	return app, nil
}
