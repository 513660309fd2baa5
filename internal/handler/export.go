// export.go implements GET /export.
// Returns every task in a single response. ?format=csv yields the same
// layout the CSV backend writes to disk; the default is a JSON array.
package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/viking/internal/repo"
)

// GetExport handles GET /export.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var format *ExportFormat
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		invalidParameter(w, err)
		return
	}
	if format != nil && *format != Csv && *format != Json {
		invalidParameter(w, fmt.Errorf("format must be %q or %q", Csv, Json))
		return
	}

	tasks, err := s.tasks.List(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	if format == nil || *format == Json {
		writeJSON(w, http.StatusOK, tasksToResponse(tasks))
		return
	}

	// Buffer first so an encoding failure can still become a 500.
	var buf bytes.Buffer
	if err := repo.WriteCSV(&buf, tasks); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="tasks.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	buf.WriteTo(w)
}
