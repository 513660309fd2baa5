package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TaskState is the position of a task in its lifecycle.
type TaskState string

const (
	// Pending is the initial state of every new task.
	Pending TaskState = "pending"
	// Completed is terminal; there is no transition back to Pending.
	Completed TaskState = "completed"
)

// Task is the to-do aggregate. It owns its completion rule: a task moves from
// Pending to Completed exactly once.
//
// Name and completion are only reachable through methods so that the
// completion flag cannot be set directly from outside the package.
type Task struct {
	Identity
	name      string
	completed bool
}

// NewTask creates a pending task with a fresh identifier.
// A blank or whitespace-only name is rejected with ErrValidation.
func NewTask(name string) (*Task, error) {
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("domain.NewTask: %w", err)
	}
	return &Task{Identity: NewIdentity(), name: name}, nil
}

// RestoreTask rebuilds a task from stored values without validation.
// Storage backends and tests use it; application code should call NewTask.
func RestoreTask(id uuid.UUID, name string, completed bool) *Task {
	return &Task{Identity: IdentityOf(id), name: name, completed: completed}
}

// Name returns the task name.
func (t *Task) Name() string {
	return t.name
}

// Completed reports whether the task has been completed.
func (t *Task) Completed() bool {
	return t.completed
}

// State returns Pending or Completed.
func (t *Task) State() TaskState {
	if t.completed {
		return Completed
	}
	return Pending
}

// Complete marks the task as done. Calling it on a completed task returns
// ErrAlreadyCompleted and leaves the task unchanged.
func (t *Task) Complete() error {
	if t.completed {
		return fmt.Errorf("task %q: %w", t.name, ErrAlreadyCompleted)
	}
	t.completed = true
	return nil
}

// Rename replaces the task name, applying the same rule as NewTask.
func (t *Task) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	t.name = name
	return nil
}

// Clone returns an independent copy of the task with the same identifier.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// Fields implements Record. The order here is the CSV header order.
func (t *Task) Fields() []Field {
	return append(t.Identity.Fields(),
		Field{Name: "name", Value: &t.name},
		Field{Name: "completed", Value: &t.completed},
	)
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}
