package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmoura/consorciapp/internal/middleware"
	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin manager member"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.users.Create(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type updateUserRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=120"`
	Role   *string `json:"role" validate:"omitempty,oneof=admin manager member"`
	Active *bool   `json:"active"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if id == middleware.GetUser(r.Context()).ID && (req.Role != nil || req.Active != nil) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "cannot change your own role or status"})
		return
	}

	user, err := s.users.Update(r.Context(), id, storage.UserUpdate{
		Name:   req.Name,
		Role:   req.Role,
		Active: req.Active,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == middleware.GetUser(r.Context()).ID {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "cannot deactivate your own account"})
		return
	}

	if err := s.users.Deactivate(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	managerID := user.ID
	if user.Role == models.RoleAdmin {
		managerID = ""
	}
	overview, err := s.dashboards.Overview(r.Context(), managerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleMemberDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.dashboards.MemberOverview(r.Context(), middleware.GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
