package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmoura/consorciapp/internal/middleware"
)

func (s *Server) handleInviteInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.invites.TokenInfo(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleInviteJoin(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	seat, err := s.invites.Join(r.Context(), chi.URLParam(r, "token"), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, seat)
}

func (s *Server) handleGroupJoin(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	seat, err := s.invites.JoinGroup(r.Context(), chi.URLParam(r, "id"), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, seat)
}

func (s *Server) handleOpenGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.invites.OpenGroups(r.Context(), "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// handleManagerPage is the public page for a manager's open groups, reached
// from a shared profile link rather than a per-group invite token.
func (s *Server) handleManagerPage(w http.ResponseWriter, r *http.Request) {
	groups, err := s.invites.OpenGroups(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}
