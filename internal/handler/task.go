package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/viking/internal/domain"
)

// ListTasks handles GET /tasks.
// Without ?page= or ?limit= every task is returned. With either, one page is
// returned (defaults: page=1, limit=20, max=100). The response is always a
// plain array; X-Total-Count carries the unpaged total.
func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		invalidParameter(w, err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		invalidParameter(w, err)
		return
	}

	tasks, total, err := s.tasks.ListPaged(r.Context(), domain.NewPaginationParams(page, limit))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, tasksToResponse(tasks))
}

// CreateTask handles POST /tasks?name=.
func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	name, ok := requireName(w, r)
	if !ok {
		return
	}

	created, err := s.tasks.Create(r.Context(), name)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/tasks/"+created.ID().String())
	writeJSON(w, http.StatusCreated, taskToResponse(created))
}

// DeleteTasksByName handles DELETE /tasks?name=.
// Every task with that name is removed; no match still returns 204.
func (s *Server) DeleteTasksByName(w http.ResponseWriter, r *http.Request) {
	name, ok := requireName(w, r)
	if !ok {
		return
	}

	if _, err := s.tasks.DeleteByName(r.Context(), name); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTask handles GET /tasks/{id}.
func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	task, err := s.tasks.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskToResponse(task))
}

// RenameTask handles PUT /tasks/{id}?name=.
func (s *Server) RenameTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	name, ok := requireName(w, r)
	if !ok {
		return
	}

	updated, err := s.tasks.Rename(r.Context(), id, name)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskToResponse(updated))
}

// CompleteTask handles POST /tasks/{id}/complete.
// Completing an already completed task is a 409.
func (s *Server) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	completed, err := s.tasks.Complete(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskToResponse(completed))
}

// pathID binds the {id} path parameter. A malformed uuid is written as a 400.
func pathID(w http.ResponseWriter, r *http.Request) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		invalidParameter(w, err)
		return id, false
	}
	return id, true
}

// requireName binds the required ?name= query parameter. A missing name is
// written as a 422, the same as a blank one rejected by the domain.
func requireName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var name string
	if err := runtime.BindQueryParameter("form", true, true, "name", r.URL.Query(), &name); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "name is required")
		return "", false
	}
	return name, true
}
