package handler

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/viking/internal/domain"
)

// Task is the JSON representation of a domain.Task.
type Task struct {
	Id        openapi_types.UUID `json:"id"`
	Name      string             `json:"name"`
	Completed bool               `json:"completed"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ExportFormat selects the GET /export encoding.
type ExportFormat string

const (
	Csv  ExportFormat = "csv"
	Json ExportFormat = "json"
)

// Error codes used in ErrorDetail.Code.
const (
	codeNotFound         = "not_found"
	codeValidation       = "validation_error"
	codeInvalidParameter = "invalid_parameter"
	codeAlreadyCompleted = "already_completed"
	codeInternal         = "internal_error"
)

func taskToResponse(t *domain.Task) Task {
	return Task{Id: t.ID(), Name: t.Name(), Completed: t.Completed()}
}

func tasksToResponse(tasks []*domain.Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = taskToResponse(t)
	}
	return out
}
