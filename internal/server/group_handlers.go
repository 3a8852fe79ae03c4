package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmoura/consorciapp/internal/middleware"
	"github.com/dmoura/consorciapp/internal/models"
)

type groupRequest struct {
	Name             string  `json:"name" validate:"required,min=2,max=120"`
	Description      string  `json:"description" validate:"max=1000"`
	Capacity         int     `json:"capacity" validate:"required,min=2,max=120"`
	PrizeValue       float64 `json:"prize_value" validate:"min=0"`
	InitialShare     float64 `json:"initial_share" validate:"required,gt=0"`
	MonthlyIncrement float64 `json:"monthly_increment" validate:"min=0"`
	PaymentDay       int     `json:"payment_day" validate:"required,min=1,max=28"`
	LateFee          float64 `json:"late_fee" validate:"min=0"`
	StartMonth       string  `json:"start_month" validate:"required"`
	// ManagerID is honored for admins only; managers always own what they
	// create.
	ManagerID string `json:"manager_id" validate:"omitempty,uuid4"`
}

func (req *groupRequest) toModel() *models.Group {
	return &models.Group{
		Name:             req.Name,
		Description:      req.Description,
		Capacity:         req.Capacity,
		PrizeValue:       req.PrizeValue,
		InitialShare:     req.InitialShare,
		MonthlyIncrement: req.MonthlyIncrement,
		PaymentDay:       req.PaymentDay,
		LateFee:          req.LateFee,
		StartMonth:       req.StartMonth,
	}
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user := middleware.GetUser(r.Context())
	managerID := user.ID
	if user.Role == models.RoleAdmin && req.ManagerID != "" {
		managerID = req.ManagerID
	}

	group := req.toModel()
	if err := s.groups.Create(r.Context(), group, managerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	managerID := user.ID
	if user.Role == models.RoleAdmin {
		managerID = "" // admins see every group
	}
	groups, err := s.groups.List(r.Context(), managerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group := s.loadManagedGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	group := s.loadManagedGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}

	var req groupRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	edited := req.toModel()
	edited.ID = group.ID
	edited.Status = group.Status
	updated, err := s.groups.Update(r.Context(), edited)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	group := s.loadManagedGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}
	if err := s.groups.Delete(r.Context(), group.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCloseGroup(w http.ResponseWriter, r *http.Request) {
	group := s.loadManagedGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}
	closed, err := s.groups.Close(r.Context(), group.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, closed)
}

func (s *Server) handleGenerateSchedule(w http.ResponseWriter, r *http.Request) {
	group := s.loadManagedGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}

	n, err := s.groups.GenerateSchedule(r.Context(), group.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"installments": n})
}

func (s *Server) handleRotateInviteToken(w http.ResponseWriter, r *http.Request) {
	group := s.loadManagedGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}

	token, err := s.groups.RotateInviteToken(r.Context(), group.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"invite_token": token})
}

type participantRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=40"`
}

func (s *Server) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	group := s.loadManagedGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}

	var req participantRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p := &models.Participant{
		GroupID: group.ID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
	}
	if err := s.groups.AddParticipant(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListRoster(w http.ResponseWriter, r *http.Request) {
	group := s.loadManagedGroup(w, r, chi.URLParam(r, "id"))
	if group == nil {
		return
	}

	roster, err := s.groups.ListRoster(r.Context(), group.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// loadManagedParticipant resolves a participant and enforces ownership of
// its group. A nil return means the response has been written.
func (s *Server) loadManagedParticipant(w http.ResponseWriter, r *http.Request) *models.Participant {
	p, err := s.groups.GetParticipant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil
	}
	if s.loadManagedGroup(w, r, p.GroupID) == nil {
		return nil
	}
	return p
}

func (s *Server) handleUpdateParticipant(w http.ResponseWriter, r *http.Request) {
	p := s.loadManagedParticipant(w, r)
	if p == nil {
		return
	}

	var req participantRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.groups.UpdateParticipant(r.Context(), p.ID, req.Name, req.Email, req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	p := s.loadManagedParticipant(w, r)
	if p == nil {
		return
	}
	if err := s.groups.RemoveParticipant(r.Context(), p.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
