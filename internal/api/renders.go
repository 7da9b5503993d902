package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/texforge/resumed/internal/history"
)

// handleListRenders returns render history, newest first.
//
// Query parameters: status, origin, limit, offset.
func (s *Server) handleListRenders(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeUnavailable(w, "render history is not enabled")
		return
	}

	q := r.URL.Query()
	filter := history.Filter{
		Status: history.Status(q.Get("status")),
		Origin: history.Origin(q.Get("origin")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeBadRequest(w, "invalid status: "+string(filter.Status))
		return
	}
	if filter.Origin != "" && !filter.Origin.Valid() {
		writeBadRequest(w, "invalid origin: "+string(filter.Origin))
		return
	}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeBadRequest(w, "invalid limit")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeBadRequest(w, "invalid offset")
		return
	}

	result, err := s.history.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing renders failed", "error", err)
		writeInternalError(w, "failed to list renders")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetRender returns one history record.
func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeUnavailable(w, "render history is not enabled")
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := s.history.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			writeNotFound(w, "render not found")
			return
		}
		s.logger.Error("getting render failed", "id", id, "error", err)
		writeInternalError(w, "failed to get render")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// intParam parses a non-negative integer query value; empty means zero.
func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
