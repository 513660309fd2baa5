// Package service contains the business logic of the Viking task tracker.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No storage details live here: services depend on the repo.Repository
// contract, never on a concrete backend.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/viking/internal/domain"
	"github.com/pkordes/viking/internal/repo"
)

// TaskService implements business logic for Task operations.
// It is shared by the HTTP handlers and the CLI.
type TaskService struct {
	repo repo.Repository[*domain.Task]
}

// NewTaskService constructs a TaskService backed by the provided repository.
func NewTaskService(r repo.Repository[*domain.Task]) *TaskService {
	return &TaskService{repo: r}
}

// Create validates name and persists a new pending task.
func (s *TaskService) Create(ctx context.Context, name string) (*domain.Task, error) {
	task, err := domain.NewTask(name)
	if err != nil {
		return nil, fmt.Errorf("service.TaskService.Create: %w", err)
	}
	if err := s.repo.Add(ctx, task); err != nil {
		return nil, fmt.Errorf("service.TaskService.Create: %w", err)
	}
	return task, nil
}

// GetByID returns a single task. A missing id is domain.ErrNotFound.
func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.TaskService.GetByID: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("service.TaskService.GetByID: %s: %w", id, domain.ErrNotFound)
	}
	return task, nil
}

// List returns all tasks in the backend's natural order.
func (s *TaskService) List(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TaskService.List: %w", err)
	}
	return tasks, nil
}

// ListPaged returns one page of tasks and the total number of tasks.
// The repository has no paging of its own, so the page is cut from the
// full list.
func (s *TaskService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]*domain.Task, int, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TaskService.ListPaged: %w", err)
	}
	start, end := p.Window(len(tasks))
	return tasks[start:end], len(tasks), nil
}

// FindByName returns the first task whose name matches exactly.
func (s *TaskService) FindByName(ctx context.Context, name string) (*domain.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TaskService.FindByName: %w", err)
	}
	for _, t := range tasks {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("service.TaskService.FindByName: %q: %w", name, domain.ErrNotFound)
}

// Rename replaces the name of an existing task, keeping its id.
func (s *TaskService) Rename(ctx context.Context, id uuid.UUID, name string) (*domain.Task, error) {
	return s.update(ctx, "Rename", id, func(t *domain.Task) error {
		return t.Rename(name)
	})
}

// Complete marks an existing task as done. A task that is already completed
// yields domain.ErrAlreadyCompleted and is left untouched.
func (s *TaskService) Complete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.update(ctx, "Complete", id, (*domain.Task).Complete)
}

// Remove deletes task. Whether removing an absent task is an error depends
// on the backend.
func (s *TaskService) Remove(ctx context.Context, task *domain.Task) error {
	if err := s.repo.Remove(ctx, task); err != nil {
		return fmt.Errorf("service.TaskService.Remove: %w", err)
	}
	return nil
}

// DeleteByName removes every task with the given name and reports how many
// were removed. Zero matches is not an error.
func (s *TaskService) DeleteByName(ctx context.Context, name string) (int, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.TaskService.DeleteByName: %w", err)
	}

	removed := 0
	seen := make(map[uuid.UUID]bool)
	for _, t := range tasks {
		// The CSV backend may hold duplicate rows; one Remove drops them all.
		if t.Name() != name || seen[t.ID()] {
			continue
		}
		seen[t.ID()] = true
		if err := s.repo.Remove(ctx, t); err != nil {
			return removed, fmt.Errorf("service.TaskService.DeleteByName: %w", err)
		}
		removed++
	}
	return removed, nil
}

func (s *TaskService) update(ctx context.Context, op string, id uuid.UUID, mutate func(*domain.Task) error) (*domain.Task, error) {
	task, ok, err := repo.Update(ctx, s.repo, id, mutate)
	if err != nil {
		return nil, fmt.Errorf("service.TaskService.%s: %w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("service.TaskService.%s: %s: %w", op, id, domain.ErrNotFound)
	}
	return task, nil
}
