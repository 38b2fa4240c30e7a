package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SaiManikanta3434/Digitly-ai/internal/core"
	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
)

// dataResponse is the grid payload for one entity kind.
type dataResponse struct {
	Kind    schema.Kind  `json:"kind"`
	Records any          `json:"records"`
	Total   int          `json:"total"`
	Sort    string       `json:"sort,omitempty"`
	Dir     core.SortDir `json:"dir,omitempty"`
}

// handleQueryData returns one kind's records, optionally filtered by a
// case-insensitive substring and sorted by a column.
//
// GET /api/data/{kind}?q=term&sort=Column&dir=asc|desc
//
// A header click sends toggle=Column alongside the grid's current sort
// state; the response carries the advanced state (asc, then desc, then
// unsorted) so the client never tracks the cycle itself.
func (s *Server) handleQueryData(w http.ResponseWriter, r *http.Request) {
	kind, err := schema.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	sortCol := strings.TrimSpace(r.URL.Query().Get("sort"))
	dir := core.SortDir(strings.ToLower(r.URL.Query().Get("dir")))
	if dir != core.SortAsc && dir != core.SortDesc {
		dir = core.SortNone
	}

	if col := strings.TrimSpace(r.URL.Query().Get("toggle")); col != "" {
		next := core.SortState{Column: sortCol, Dir: dir}.Toggle(col)
		sortCol, dir = next.Column, next.Dir
	}

	ds := s.service.State().Dataset()

	resp := dataResponse{Kind: kind, Sort: sortCol, Dir: dir}
	switch kind {
	case schema.KindClients:
		recs := core.Sort(core.Filter(ds.Clients, q), sortCol, dir)
		resp.Records, resp.Total = recs, len(recs)
	case schema.KindWorkers:
		recs := core.Sort(core.Filter(ds.Workers, q), sortCol, dir)
		resp.Records, resp.Total = recs, len(recs)
	case schema.KindTasks:
		recs := core.Sort(core.Filter(ds.Tasks, q), sortCol, dir)
		resp.Records, resp.Total = recs, len(recs)
	}

	writeJSON(w, http.StatusOK, resp)
}

// updateCellRequest is one inline edit: a single field of a single record.
type updateCellRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// updateCellResponse reports the coerced row and any substitution the edit
// triggered, so the grid can show the value that was actually stored.
type updateCellResponse struct {
	Record any                 `json:"record"`
	Notes  []core.CoercionNote `json:"coercionNotes,omitempty"`
}

// handleUpdateCell re-coerces one record after an inline edit. Malformed
// values never fail the request; they are replaced with defaults and
// reported in coercionNotes.
//
// PATCH /api/data/{kind}/{id}
func (s *Server) handleUpdateCell(w http.ResponseWriter, r *http.Request) {
	kind, err := schema.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")

	var req updateCellRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid edit body: %w", err), http.StatusBadRequest)
		return
	}
	if req.Field == "" {
		s.respondError(w, r, fmt.Errorf("invalid edit body: field is required"), http.StatusBadRequest)
		return
	}

	rec, notes, err := s.service.UpdateCell(kind, id, req.Field, req.Value)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, updateCellResponse{
		Record: rec,
		Notes:  notes,
	})
}
