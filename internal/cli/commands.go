package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/pkordes/viking/internal/domain"
)

// TaskService is the subset of service.TaskService the commands use.
type TaskService interface {
	Create(ctx context.Context, name string) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	FindByName(ctx context.Context, name string) (*domain.Task, error)
	Remove(ctx context.Context, task *domain.Task) error
	Complete(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

// commandFunc is the shape of every leaf command. args have already been
// checked by the command's cobra.PositionalArgs.
type commandFunc func(ctx context.Context, svc TaskService, out io.Writer, args []string) error

func addTask(ctx context.Context, svc TaskService, out io.Writer, args []string) error {
	name := args[0]
	if _, err := svc.Create(ctx, name); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	fmt.Fprintf(out, "Task added '%s'\n", name)
	return nil
}

func getTask(ctx context.Context, svc TaskService, out io.Writer, args []string) error {
	name := args[0]
	task, err := svc.FindByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		fmt.Fprintf(out, "Task '%s' not found\n", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	fmt.Fprintln(out, formatTask(task))
	return nil
}

// removeTask removes the first task with the given name only.
func removeTask(ctx context.Context, svc TaskService, out io.Writer, args []string) error {
	name := args[0]
	task, err := svc.FindByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		fmt.Fprintf(out, "Task '%s' not found\n", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove task: %w", err)
	}
	if err := svc.Remove(ctx, task); err != nil {
		return fmt.Errorf("failed to remove task: %w", err)
	}
	fmt.Fprintf(out, "Task removed '%s'\n", name)
	return nil
}

func listTasks(ctx context.Context, svc TaskService, out io.Writer, _ []string) error {
	tasks, err := svc.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	for _, t := range tasks {
		fmt.Fprintln(out, formatTask(t))
	}
	return nil
}

func completeTask(ctx context.Context, svc TaskService, out io.Writer, args []string) error {
	name := args[0]
	task, err := svc.FindByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		fmt.Fprintf(out, "Task '%s' not found\n", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	_, err = svc.Complete(ctx, task.ID())
	switch {
	case errors.Is(err, domain.ErrAlreadyCompleted):
		fmt.Fprintf(out, "Task '%s' already completed\n", name)
		return nil
	case err != nil:
		return fmt.Errorf("failed to complete task: %w", err)
	}
	fmt.Fprintf(out, "Task '%s' completed\n", name)
	return nil
}

// formatTask renders "[x] - name" for a completed task, "[ ] - name" otherwise.
func formatTask(t *domain.Task) string {
	mark := " "
	if t.Completed() {
		mark = "x"
	}
	return fmt.Sprintf("[%s] - %s", mark, t.Name())
}
