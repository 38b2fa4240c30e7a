package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SaiManikanta3434/Digitly-ai/internal/core"
)

// handleListFindings returns all current validation findings.
//
// GET /api/findings
func (s *Server) handleListFindings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"findings": s.service.Findings(),
	})
}

// handleAddFinding accepts one finding from the validation collaborator.
//
// POST /api/findings
func (s *Server) handleAddFinding(w http.ResponseWriter, r *http.Request) {
	var finding core.ValidationFinding
	if err := decodeJSON(r, &finding); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid finding body: %w", err), http.StatusBadRequest)
		return
	}

	created, err := s.service.AddFinding(finding)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleDismissFinding removes a finding.
//
// DELETE /api/findings/{id}
func (s *Server) handleDismissFinding(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DismissFinding(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
