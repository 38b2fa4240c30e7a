package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SaiManikanta3434/Digitly-ai/internal/core"
	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
)

// handleExportData serves one kind's current records as a download.
//
// GET /api/export/{kind}?format=csv|xlsx|json
func (s *Server) handleExportData(w http.ResponseWriter, r *http.Request) {
	kind, err := schema.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	format, err := core.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	data, contentType, err := s.service.Export(kind, format)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s.%s", kind, format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleExportRules serves the rules configuration (rules plus
// prioritization weights) as a JSON download.
//
// GET /api/export/rules
func (s *Server) handleExportRules(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ExportRulesConfig()
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="rules.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
