package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/SaiManikanta3434/Digitly-ai/internal/core"
)

// handleImport accepts a multipart form with the three entity files under the
// field names "clients", "workers" and "tasks", runs the batch pipeline and
// returns the coerced dataset with coercion warnings.
//
// POST /api/import
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	// Cap the whole request at three files plus form overhead.
	maxRequest := 3*s.cfg.Import.MaxFileSize + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxRequest)

	if err := r.ParseMultipartForm(maxRequest); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid multipart form: %w", err), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := core.ImportRequest{}
	for _, f := range []struct {
		field string
		dst   **core.FileInput
	}{
		{"clients", &req.Clients},
		{"workers", &req.Workers},
		{"tasks", &req.Tasks},
	} {
		input, err := readFormFile(r, f.field)
		if err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
		*f.dst = input
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	result, err := s.service.Import(ctx, req)
	if err != nil {
		s.respondError(w, r, err, importErrorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// readFormFile reads one optional multipart file field. A missing field is
// not an error here; Import reports all missing kinds in one message.
func readFormFile(r *http.Request, field string) (*core.FileInput, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read form file %q: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read form file %q: %w", field, err)
	}
	return &core.FileInput{Name: header.Filename, Data: data}, nil
}

// importErrorStatus picks the HTTP status for an import failure.
func importErrorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrIncompleteUpload):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499 // client closed request
	default:
		return http.StatusBadRequest
	}
}
