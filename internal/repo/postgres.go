package repo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/viking/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, and unit
// tests to pass a pgxmock pool.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepo stores records in a Postgres table with one column per field.
//
// Add is an upsert on id, so it behaves like the memory backend. Remove of an
// absent id is a no-op, like the CSV backend. List order is ascending by the
// table's insertion sequence.
type PostgresRepo[T any, P RecordPtr[T]] struct {
	db    db
	table sqlTable[T, P]
}

// compile-time check: PostgresRepo must satisfy Repository.
var _ Repository[*domain.Task] = (*PostgresRepo[domain.Task, *domain.Task])(nil)

// NewPostgresRepo constructs a PostgresRepo over the named table.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresRepo[T any, P RecordPtr[T]](db db, table string) *PostgresRepo[T, P] {
	return &PostgresRepo[T, P]{db: db, table: newSQLTable[T, P](table, sq.Dollar)}
}

// Add inserts e or overwrites the row with the same id.
func (r *PostgresRepo[T, P]) Add(ctx context.Context, e P) error {
	q, args, err := r.table.upsert(e)
	if err != nil {
		return fmt.Errorf("repo.PostgresRepo.Add: build: %w", err)
	}
	if _, err := r.db.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("repo.PostgresRepo.Add: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// Get retrieves a row by primary key.
func (r *PostgresRepo[T, P]) Get(ctx context.Context, id uuid.UUID) (P, bool, error) {
	q, args, err := r.table.selectByID(id)
	if err != nil {
		return nil, false, fmt.Errorf("repo.PostgresRepo.Get: build: %w", err)
	}

	rec, err := scanRecord[T, P](r.db.QueryRow(ctx, q, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("repo.PostgresRepo.Get: %w: %w", domain.ErrStorage, err)
	}
	return rec, true, nil
}

// Remove deletes the row with e's id. Zero rows affected is not an error.
func (r *PostgresRepo[T, P]) Remove(ctx context.Context, e P) error {
	q, args, err := r.table.deleteByID(e.ID())
	if err != nil {
		return fmt.Errorf("repo.PostgresRepo.Remove: build: %w", err)
	}
	if _, err := r.db.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("repo.PostgresRepo.Remove: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// List returns every row.
func (r *PostgresRepo[T, P]) List(ctx context.Context) ([]P, error) {
	q, args, err := r.table.selectAll("seq")
	if err != nil {
		return nil, fmt.Errorf("repo.PostgresRepo.List: build: %w", err)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("repo.PostgresRepo.List: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	out := []P{}
	for rows.Next() {
		rec, err := scanRecord[T, P](rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PostgresRepo.List: scan: %w: %w", domain.ErrStorage, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PostgresRepo.List: rows: %w: %w", domain.ErrStorage, err)
	}
	return out, nil
}
