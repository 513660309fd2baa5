package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/viking/internal/domain"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the status line is already sent; nothing useful to do on failure.
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// notFound writes a 404. The caller supplies the message (e.g. "task not found")
// because the handler is the layer that knows what was being looked up.
func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, codeNotFound, message)
}

// validationFailed writes a 422 whose message is the part of err after the
// wrapped domain.ErrValidation text.
func validationFailed(w http.ResponseWriter, err error) {
	writeError(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err))
}

// invalidParameter writes a 400 for a parameter rejected before reaching the
// service layer (e.g. a malformed uuid).
func invalidParameter(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
}

// serviceError maps a service error to a response. Unknown errors become a
// logged 500 whose body does not leak the cause.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		notFound(w, "task not found")
	case errors.Is(err, domain.ErrValidation):
		validationFailed(w, err)
	case errors.Is(err, domain.ErrAlreadyCompleted):
		writeError(w, http.StatusConflict, codeAlreadyCompleted, "task already completed")
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TaskService.Create: domain.NewTask: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
