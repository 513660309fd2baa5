// Package backend opens the task repository selected by configuration.
// Both front ends use it, so a backend added here is available to the API
// and the CLI at once.
package backend

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers "sqlite" driver for database/sql

	"github.com/pkordes/viking/internal/config"
	"github.com/pkordes/viking/internal/domain"
	"github.com/pkordes/viking/internal/repo"
	"github.com/pkordes/viking/migrations"
)

// TaskTable is the table the relational backends store tasks in.
const TaskTable = "tasks"

// CloseFunc releases whatever Open acquired. It is never nil.
type CloseFunc func() error

func noop() error { return nil }

// Open returns the task repository named by cfg.Backend.
// Relational backends are migrated before they are returned.
func Open(ctx context.Context, cfg config.StorageConfig) (repo.Repository[*domain.Task], CloseFunc, error) {
	if err := cfg.Validate(); err != nil {
		return nil, noop, fmt.Errorf("backend.Open: %w", err)
	}

	switch cfg.Backend {
	case config.BackendMemory:
		return repo.NewMemoryRepo[*domain.Task](), noop, nil
	case config.BackendCSV:
		return repo.NewCSVRepo[domain.Task](cfg.CSVPath), noop, nil
	case config.BackendSQLite:
		return openSQLite(ctx, cfg.SQLitePath)
	case config.BackendPostgres:
		return openPostgres(ctx, cfg.DatabaseURL)
	}
	// Unreachable after Validate.
	return nil, noop, fmt.Errorf("backend.Open: unknown backend %q", cfg.Backend)
}

func openSQLite(ctx context.Context, path string) (repo.Repository[*domain.Task], CloseFunc, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, noop, fmt.Errorf("backend.Open: sqlite: %w", err)
	}
	// A single connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := migrations.Up(ctx, goose.DialectSQLite3, db); err != nil {
		db.Close()
		return nil, noop, fmt.Errorf("backend.Open: sqlite: %w", err)
	}
	return repo.NewSQLiteRepo[domain.Task](db, TaskTable), db.Close, nil
}

func openPostgres(ctx context.Context, dsn string) (repo.Repository[*domain.Task], CloseFunc, error) {
	// New() does not open connections immediately; Ping does.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, noop, fmt.Errorf("backend.Open: postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, noop, fmt.Errorf("backend.Open: postgres: ping: %w", err)
	}

	// goose needs database/sql; borrow a *sql.DB view of the same pool.
	sqlDB := stdlib.OpenDBFromPool(pool)
	_, err = migrations.Up(ctx, goose.DialectPostgres, sqlDB)
	sqlDB.Close()
	if err != nil {
		pool.Close()
		return nil, noop, fmt.Errorf("backend.Open: postgres: %w", err)
	}

	return repo.NewPostgresRepo[domain.Task](pool, TaskTable), func() error {
		pool.Close()
		return nil
	}, nil
}
