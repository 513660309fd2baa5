package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/viking/internal/domain"
	"github.com/pkordes/viking/internal/repo"
	"github.com/pkordes/viking/internal/service"
)

// mockTaskRepo is a hand-written test double for repo.Repository.
// Each method is a function field; set only the ones your test needs.
type mockTaskRepo struct {
	add    func(ctx context.Context, t *domain.Task) error
	get    func(ctx context.Context, id uuid.UUID) (*domain.Task, bool, error)
	remove func(ctx context.Context, t *domain.Task) error
	list   func(ctx context.Context) ([]*domain.Task, error)
}

func (m *mockTaskRepo) Add(ctx context.Context, t *domain.Task) error {
	return m.add(ctx, t)
}
func (m *mockTaskRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Task, bool, error) {
	return m.get(ctx, id)
}
func (m *mockTaskRepo) Remove(ctx context.Context, t *domain.Task) error {
	return m.remove(ctx, t)
}
func (m *mockTaskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	return m.list(ctx)
}

// compile-time check: mockTaskRepo must satisfy repo.Repository.
var _ repo.Repository[*domain.Task] = (*mockTaskRepo)(nil)

var errDB = errors.New("db down")

// ---- helpers ---------------------------------------------------------------

func task(t *testing.T, name string) *domain.Task {
	t.Helper()
	tk, err := domain.NewTask(name)
	require.NoError(t, err)
	return tk
}

// seeded returns a service over a real MemoryRepo holding tasks, for tests
// that care about end state rather than individual repo calls.
func seeded(tasks ...*domain.Task) (*service.TaskService, *repo.MemoryRepo[*domain.Task]) {
	r := repo.NewMemoryRepo(tasks...)
	return service.NewTaskService(r), r
}

func failingRepo() *mockTaskRepo {
	return &mockTaskRepo{
		add:    func(context.Context, *domain.Task) error { return errDB },
		get:    func(context.Context, uuid.UUID) (*domain.Task, bool, error) { return nil, false, errDB },
		remove: func(context.Context, *domain.Task) error { return errDB },
		list:   func(context.Context) ([]*domain.Task, error) { return nil, errDB },
	}
}

// ---- Create ----------------------------------------------------------------

func TestTaskService_Create(t *testing.T) {
	var stored *domain.Task
	svc := service.NewTaskService(&mockTaskRepo{
		add: func(_ context.Context, tk *domain.Task) error { stored = tk; return nil },
	})

	got, err := svc.Create(context.Background(), "test")

	require.NoError(t, err)
	assert.Equal(t, "test", got.Name())
	assert.False(t, got.Completed())
	assert.Same(t, got, stored)
}

func TestTaskService_Create_BlankName(t *testing.T) {
	svc := service.NewTaskService(&mockTaskRepo{})

	_, err := svc.Create(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskService_Create_RepoError(t *testing.T) {
	svc := service.NewTaskService(failingRepo())

	_, err := svc.Create(context.Background(), "test")

	assert.ErrorIs(t, err, errDB)
}

// ---- GetByID / List --------------------------------------------------------

func TestTaskService_GetByID(t *testing.T) {
	tk := task(t, "find me")
	svc, _ := seeded(tk)

	got, err := svc.GetByID(context.Background(), tk.ID())

	require.NoError(t, err)
	assert.Equal(t, tk.ID(), got.ID())
}

func TestTaskService_GetByID_NotFound(t *testing.T) {
	svc, _ := seeded()

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskService_GetByID_RepoError(t *testing.T) {
	svc := service.NewTaskService(failingRepo())

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, errDB)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskService_List(t *testing.T) {
	svc, _ := seeded(task(t, "A"), task(t, "B"))

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestTaskService_ListPaged(t *testing.T) {
	svc, _ := seeded(task(t, "1"), task(t, "2"), task(t, "3"), task(t, "4"), task(t, "5"))

	got, total, err := svc.ListPaged(context.Background(), domain.PaginationParams{Page: 2, Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].Name())
	assert.Equal(t, "4", got[1].Name())
}

func TestTaskService_ListPaged_Unpaged(t *testing.T) {
	svc, _ := seeded(task(t, "1"), task(t, "2"))

	got, total, err := svc.ListPaged(context.Background(), domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, got, 2)
}

// ---- FindByName ------------------------------------------------------------

func TestTaskService_FindByName_FirstMatch(t *testing.T) {
	first, second := task(t, "dup"), task(t, "dup")
	svc, _ := seeded(task(t, "other"), first, second)

	got, err := svc.FindByName(context.Background(), "dup")

	require.NoError(t, err)
	assert.Equal(t, first.ID(), got.ID())
}

func TestTaskService_FindByName_NotFound(t *testing.T) {
	svc, _ := seeded(task(t, "other"))

	_, err := svc.FindByName(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Rename / Complete -----------------------------------------------------

func TestTaskService_Rename(t *testing.T) {
	tk := task(t, "test")
	svc, r := seeded(tk)
	ctx := context.Background()

	got, err := svc.Rename(ctx, tk.ID(), "updated")

	require.NoError(t, err)
	assert.Equal(t, "updated", got.Name())
	assert.Equal(t, tk.ID(), got.ID())
	assert.Equal(t, 1, r.Count())
}

func TestTaskService_Rename_Blank(t *testing.T) {
	tk := task(t, "test")
	svc, _ := seeded(tk)

	_, err := svc.Rename(context.Background(), tk.ID(), "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskService_Rename_NotFound(t *testing.T) {
	svc, _ := seeded()

	_, err := svc.Rename(context.Background(), uuid.New(), "updated")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskService_Complete(t *testing.T) {
	tk := task(t, "test")
	svc, r := seeded(tk)
	ctx := context.Background()

	got, err := svc.Complete(ctx, tk.ID())

	require.NoError(t, err)
	assert.True(t, got.Completed())
	stored, ok, err := r.Get(ctx, tk.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.Completed())
}

func TestTaskService_Complete_Twice(t *testing.T) {
	tk := task(t, "test")
	svc, _ := seeded(tk)
	ctx := context.Background()
	_, err := svc.Complete(ctx, tk.ID())
	require.NoError(t, err)

	_, err = svc.Complete(ctx, tk.ID())

	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
}

func TestTaskService_Complete_NotFound(t *testing.T) {
	svc, _ := seeded()

	_, err := svc.Complete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Remove / DeleteByName -------------------------------------------------

func TestTaskService_Remove(t *testing.T) {
	tk := task(t, "gone")
	svc, r := seeded(tk)

	require.NoError(t, svc.Remove(context.Background(), tk))

	assert.Zero(t, r.Count())
}

// TestTaskService_Remove_MemoryMissing documents that the memory backend's
// lookup error on an absent entity reaches the caller.
func TestTaskService_Remove_MemoryMissing(t *testing.T) {
	svc, _ := seeded()

	err := svc.Remove(context.Background(), task(t, "never added"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskService_DeleteByName(t *testing.T) {
	svc, r := seeded(task(t, "test"), task(t, "keep"), task(t, "test"))

	n, err := svc.DeleteByName(context.Background(), "test")

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, r.Count())
}

func TestTaskService_DeleteByName_NoMatch(t *testing.T) {
	svc, r := seeded(task(t, "keep"))

	n, err := svc.DeleteByName(context.Background(), "test")

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, r.Count())
}

// TestTaskService_DeleteByName_DuplicateRows verifies that a task listed
// twice, as the CSV backend does after a repeated Add, is removed once.
func TestTaskService_DeleteByName_DuplicateRows(t *testing.T) {
	tk := task(t, "test")
	removes := 0
	svc := service.NewTaskService(&mockTaskRepo{
		list:   func(context.Context) ([]*domain.Task, error) { return []*domain.Task{tk, tk}, nil },
		remove: func(context.Context, *domain.Task) error { removes++; return nil },
	})

	n, err := svc.DeleteByName(context.Background(), "test")

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, removes)
}

func TestTaskService_DeleteByName_RepoError(t *testing.T) {
	svc := service.NewTaskService(failingRepo())

	_, err := svc.DeleteByName(context.Background(), "test")

	assert.ErrorIs(t, err, errDB)
}
