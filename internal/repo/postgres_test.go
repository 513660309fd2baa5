package repo_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/viking/internal/domain"
	"github.com/pkordes/viking/internal/repo"
	"github.com/pkordes/viking/testutil"
)

// newPostgresRepo opens a transaction against the test database and returns a
// PostgresRepo backed by that transaction. The transaction is rolled back
// when the test finishes, giving free per-test isolation.
//
// Skipped unless TEST_DATABASE_URL or TEST_POSTGRES_CONTAINER=1 is set.
func newPostgresRepo(t *testing.T) *repo.PostgresRepo[domain.Task, *domain.Task] {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewPostgresRepo[domain.Task](tx, "tasks")
}

func newMockRepo(t *testing.T) (*repo.PostgresRepo[domain.Task, *domain.Task], pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return repo.NewPostgresRepo[domain.Task](mock, "tasks"), mock
}

var taskColumns = []string{"id", "name", "completed"}

// ---- unit tests (pgxmock) ----

// Ids in WHERE clauses reach the driver as strings: squirrel's Eq resolves
// driver.Valuer arguments, and uuid.UUID.Value returns its string form.

func TestPostgresRepo_Add_Upsert(t *testing.T) {
	r, mock := newMockRepo(t)
	task := mustTask(t, "write sql")

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO tasks (id,name,completed) VALUES ($1,$2,$3) " +
			"ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, completed = EXCLUDED.completed")).
		WithArgs(task.ID(), "write sql", false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Add(context.Background(), task))
}

func TestPostgresRepo_Add_Error(t *testing.T) {
	r, mock := newMockRepo(t)
	task := mustTask(t, "write sql")

	mock.ExpectExec(`INSERT INTO tasks`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	err := r.Add(context.Background(), task)

	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestPostgresRepo_Get(t *testing.T) {
	r, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, completed FROM tasks WHERE id = $1 LIMIT 1")).
		WithArgs(id.String()).
		WillReturnRows(pgxmock.NewRows(taskColumns).AddRow(id, "stored", true))

	got, ok, err := r.Get(context.Background(), id)

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, got.ID())
	assert.Equal(t, "stored", got.Name())
	assert.True(t, got.Completed())
}

func TestPostgresRepo_Get_NotFound(t *testing.T) {
	r, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, name, completed FROM tasks`).
		WithArgs(id.String()).
		WillReturnError(pgx.ErrNoRows)

	got, ok, err := r.Get(context.Background(), id)

	require.NoError(t, err, "a missing id is not an error")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestPostgresRepo_Remove(t *testing.T) {
	r, mock := newMockRepo(t)
	task := mustTask(t, "gone")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1")).
		WithArgs(task.ID().String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, r.Remove(context.Background(), task))
}

// TestPostgresRepo_Remove_Missing verifies zero affected rows is not an error.
func TestPostgresRepo_Remove_Missing(t *testing.T) {
	r, mock := newMockRepo(t)
	task := mustTask(t, "never added")

	mock.ExpectExec(`DELETE FROM tasks`).
		WithArgs(task.ID().String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, r.Remove(context.Background(), task))
}

func TestPostgresRepo_List(t *testing.T) {
	r, mock := newMockRepo(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, completed FROM tasks ORDER BY seq")).
		WillReturnRows(pgxmock.NewRows(taskColumns).
			AddRow(a, "A", false).
			AddRow(b, "B", true))

	got, err := r.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(got))
	assert.Equal(t, b, got[1].ID())
	assert.True(t, got[1].Completed())
}

func TestPostgresRepo_List_Empty(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, name, completed FROM tasks`).
		WillReturnRows(pgxmock.NewRows(taskColumns))

	got, err := r.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostgresRepo_List_QueryError(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("boom"))

	_, err := r.List(context.Background())

	assert.ErrorIs(t, err, domain.ErrStorage)
}

// ---- integration tests ----

func TestPostgresRepo_AddSameID_Upserts(t *testing.T) {
	r := newPostgresRepo(t)
	ctx := context.Background()
	first := mustTask(t, "first")
	require.NoError(t, r.Add(ctx, first))

	require.NoError(t, r.Add(ctx, domain.RestoreTask(first.ID(), "second", true)))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Name())
	assert.True(t, got[0].Completed())
}

func TestPostgresRepo_RemoveMissing_Integration(t *testing.T) {
	r := newPostgresRepo(t)

	require.NoError(t, r.Remove(context.Background(), mustTask(t, "never added")))
}
