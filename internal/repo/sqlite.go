package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/pkordes/viking/internal/domain"
)

// sqlDB is the subset of *sql.DB and *sql.Tx used by SQLiteRepo.
type sqlDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteRepo stores records in a SQLite table through database/sql.
// It shares statement building with PostgresRepo and has the same semantics:
// Add upserts, Remove of an absent id is a no-op, List follows rowid order.
type SQLiteRepo[T any, P RecordPtr[T]] struct {
	db    sqlDB
	table sqlTable[T, P]
}

// compile-time check: SQLiteRepo must satisfy Repository.
var _ Repository[*domain.Task] = (*SQLiteRepo[domain.Task, *domain.Task])(nil)

// NewSQLiteRepo constructs a SQLiteRepo over the named table.
func NewSQLiteRepo[T any, P RecordPtr[T]](db sqlDB, table string) *SQLiteRepo[T, P] {
	return &SQLiteRepo[T, P]{db: db, table: newSQLTable[T, P](table, sq.Question)}
}

func (r *SQLiteRepo[T, P]) Add(ctx context.Context, e P) error {
	q, args, err := r.table.upsert(e)
	if err != nil {
		return fmt.Errorf("repo.SQLiteRepo.Add: build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("repo.SQLiteRepo.Add: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

func (r *SQLiteRepo[T, P]) Get(ctx context.Context, id uuid.UUID) (P, bool, error) {
	q, args, err := r.table.selectByID(id)
	if err != nil {
		return nil, false, fmt.Errorf("repo.SQLiteRepo.Get: build: %w", err)
	}

	rec, err := scanRecord[T, P](r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("repo.SQLiteRepo.Get: %w: %w", domain.ErrStorage, err)
	}
	return rec, true, nil
}

func (r *SQLiteRepo[T, P]) Remove(ctx context.Context, e P) error {
	q, args, err := r.table.deleteByID(e.ID())
	if err != nil {
		return fmt.Errorf("repo.SQLiteRepo.Remove: build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("repo.SQLiteRepo.Remove: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

func (r *SQLiteRepo[T, P]) List(ctx context.Context) ([]P, error) {
	q, args, err := r.table.selectAll("rowid")
	if err != nil {
		return nil, fmt.Errorf("repo.SQLiteRepo.List: build: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("repo.SQLiteRepo.List: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	out := []P{}
	for rows.Next() {
		rec, err := scanRecord[T, P](rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SQLiteRepo.List: scan: %w: %w", domain.ErrStorage, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SQLiteRepo.List: rows: %w: %w", domain.ErrStorage, err)
	}
	return out, nil
}
