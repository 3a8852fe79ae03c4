package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmoura/consorciapp/internal/middleware"
	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

func (s *Server) handleListInstallments(w http.ResponseWriter, r *http.Request) {
	group, manages := s.loadReadableGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}

	q := r.URL.Query()
	filter := storage.InstallmentFilter{
		GroupID:       group.ID,
		ParticipantID: q.Get("participant_id"),
		Status:        q.Get("status"),
	}
	if !manages {
		// Members see their own rows only; query params cannot widen that.
		filter.ParticipantID = ""
		filter.UserID = middleware.GetUser(r.Context()).ID
	}
	rows, err := s.installments.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// loadManagedInstallment resolves an installment and enforces ownership of
// its group. A nil return means the response has been written.
func (s *Server) loadManagedInstallment(w http.ResponseWriter, r *http.Request) *models.InstallmentDetail {
	inst, err := s.installments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil
	}
	if s.loadManagedGroup(w, r, inst.GroupID) == nil {
		return nil
	}
	return inst
}

type payRequest struct {
	PaidOn string `json:"paid_on" validate:"omitempty,len=10"`
	Note   string `json:"note" validate:"max=500"`
}

func (s *Server) handlePayInstallment(w http.ResponseWriter, r *http.Request) {
	inst := s.loadManagedInstallment(w, r)
	if inst == nil {
		return
	}

	// An empty body means "paid today with no note".
	var req payRequest
	if r.ContentLength > 0 {
		if err := s.decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	paid, err := s.installments.Pay(r.Context(), inst.ID, req.PaidOn, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paid)
}

func (s *Server) handleReverseInstallment(w http.ResponseWriter, r *http.Request) {
	inst := s.loadManagedInstallment(w, r)
	if inst == nil {
		return
	}

	reversed, err := s.installments.Reverse(r.Context(), inst.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reversed)
}

func (s *Server) handleDefaulters(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	managerID := user.ID
	if user.Role == models.RoleAdmin {
		managerID = ""
	}
	rows, err := s.installments.Defaulters(r.Context(), r.URL.Query().Get("group_id"), managerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleMyInstallments(w http.ResponseWriter, r *http.Request) {
	rows, err := s.installments.ForUser(r.Context(), middleware.GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
