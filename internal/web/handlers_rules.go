package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SaiManikanta3434/Digitly-ai/internal/core"
)

// handleListRules returns all rules, highest priority first.
//
// GET /api/rules
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rules": s.service.Rules(),
	})
}

// handleCreateRule validates and stores a new rule.
//
// POST /api/rules
func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var rule core.Rule
	if err := decodeJSON(r, &rule); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid rule body: %w", err), http.StatusBadRequest)
		return
	}

	created, err := s.service.CreateRule(rule)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateRule replaces an existing rule.
//
// PUT /api/rules/{id}
func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	var rule core.Rule
	if err := decodeJSON(r, &rule); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid rule body: %w", err), http.StatusBadRequest)
		return
	}
	rule.ID = chi.URLParam(r, "id")

	updated, err := s.service.UpdateRule(rule)
	if err != nil {
		s.respondError(w, r, err, ruleErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteRule removes a rule.
//
// DELETE /api/rules/{id}
func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteRule(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetWeights returns the prioritization weights.
//
// GET /api/priorities
func (s *Server) handleGetWeights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Weights())
}

// handleSetWeights replaces the prioritization weights. Weights are stored
// as given; they are not normalized or validated against each other.
//
// PUT /api/priorities
func (s *Server) handleSetWeights(w http.ResponseWriter, r *http.Request) {
	var weights core.Weights
	if err := decodeJSON(r, &weights); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid weights body: %w", err), http.StatusBadRequest)
		return
	}
	s.service.SetWeights(weights)
	writeJSON(w, http.StatusOK, weights)
}

// ruleErrorStatus distinguishes a missing rule from an invalid one.
func ruleErrorStatus(err error) int {
	if msg := core.MapError(err); msg.Code == "RULE003" {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
