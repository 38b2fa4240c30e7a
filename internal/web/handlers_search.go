package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
	"github.com/SaiManikanta3434/Digitly-ai/internal/search"
)

// searchRequest is a natural-language query, optionally scoped to one kind.
type searchRequest struct {
	Query string `json:"query"`
	Kind  string `json:"kind,omitempty"`
}

// handleSearch resolves a natural-language query against the current
// dataset. A result superseded by a newer query returns 409; the client
// keeps the newer result.
//
// POST /api/search
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid search body: %w", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, r, fmt.Errorf("invalid search body: query is required"), http.StatusBadRequest)
		return
	}

	var kind schema.Kind
	if req.Kind != "" {
		parsed, err := schema.ParseKind(req.Kind)
		if err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
		kind = parsed
	}

	result, err := s.searcher.Search(r.Context(), search.Request{
		Query:   req.Query,
		Kind:    kind,
		Dataset: s.service.State().Dataset(),
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, search.ErrSuperseded) {
			status = http.StatusConflict
		}
		s.respondError(w, r, err, status)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
