package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type runDrawRequest struct {
	Force bool `json:"force"`
}

func (s *Server) handleRunDraw(w http.ResponseWriter, r *http.Request) {
	group := s.loadManagedGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}

	var req runDrawRequest
	if r.ContentLength > 0 {
		if err := s.decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	results, err := s.draws.Run(r.Context(), group.ID, req.Force)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

type adjustDrawRequest struct {
	// Positions maps participant ID to contemplation position. It must
	// cover the whole roster with each position 1..M used exactly once.
	Positions map[string]int `json:"positions" validate:"required,min=1"`
}

func (s *Server) handleAdjustDraw(w http.ResponseWriter, r *http.Request) {
	group := s.loadManagedGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}

	var req adjustDrawRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	results, err := s.draws.Adjust(r.Context(), group.ID, req.Positions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleDrawLog(w http.ResponseWriter, r *http.Request) {
	group := s.loadManagedGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}

	entries, err := s.draws.Log(r.Context(), group.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleDrawResults(w http.ResponseWriter, r *http.Request) {
	group, _ := s.loadReadableGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}

	results, err := s.draws.Results(r.Context(), group.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
