package domain

import "errors"

// ErrNotFound is returned by service functions when the requested task does
// not exist. The repository boundary itself reports absence with a comma-ok
// result; only the in-memory backend's Remove wraps this as a lookup error.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. a task constructed or renamed with a blank name).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrAlreadyCompleted is returned by Task.Complete when the task has already
// reached the Completed state. Callers must report it, never swallow it.
// Handlers should map this to HTTP 409 Conflict.
var ErrAlreadyCompleted = errors.New("already completed")

// ErrStorage wraps any I/O failure of a storage backend (file or database).
// The core never retries; the caller decides what to do.
var ErrStorage = errors.New("storage error")
