// Package main implements the entry point for the tarefas API server,
// a multi-tenant task list over HTTP. With -migrate it runs a single
// migration command against the configured database and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phrazzld/tarefas-api/internal/config"
	"github.com/phrazzld/tarefas-api/internal/platform/logger"
	"github.com/phrazzld/tarefas-api/internal/platform/migrate"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command and exit ("+strings.Join(migrate.Commands, "|")+")")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd); err != nil {
		log.Printf("tarefas-api: %v", err)
		stop()
		os.Exit(1)
	}
}

// run loads configuration, opens the database and either executes
// migrateCmd or serves HTTP until ctx is cancelled.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	lg, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	lg.Info("configuration loaded",
		slog.String("profile", cfg.Profile),
		slog.Int("port", cfg.Server.Port),
		slog.String("database_driver", cfg.Database.Driver))

	db, err := openDatabase(ctx, cfg.Database, lg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			lg.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if migrateCmd != "" {
		return migrate.Run(ctx, db, cfg.Database.Driver, migrateCmd, lg)
	}

	if cfg.Database.AutoMigrate {
		if err := migrate.Up(ctx, db, cfg.Database.Driver, lg); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	app, err := newApplication(cfg, lg, db)
	if err != nil {
		return err
	}
	return app.serve(ctx)
}
