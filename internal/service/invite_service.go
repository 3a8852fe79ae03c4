package service

import (
	"context"
	"log/slog"

	"github.com/dmoura/consorciapp/internal/eventlog"
	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

// InviteService is the self-service enrollment surface: resolving invite
// links and joining groups.
type InviteService struct {
	store  storage.Store
	events *eventlog.Worker
}

// NewInviteService creates an InviteService.
func NewInviteService(store storage.Store, events *eventlog.Worker) *InviteService {
	return &InviteService{store: store, events: events}
}

// TokenInfo resolves an invite token to the group it opens, with occupancy
// counters so the invite page can show remaining seats.
func (s *InviteService) TokenInfo(ctx context.Context, token string) (*models.GroupSummary, error) {
	group, err := s.store.GetGroupByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	// The invite page must not leak the credential back out.
	group.InviteToken = ""
	return group, nil
}

// Join enrolls the authenticated user in the group behind the token.
func (s *InviteService) Join(ctx context.Context, token string, user *models.User) (*models.Participant, error) {
	group, err := s.store.GetGroupByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.enroll(ctx, group.ID, group.Status, user)
}

// JoinGroup enrolls the authenticated user in a group picked from a
// manager's public page, without an invite token.
func (s *InviteService) JoinGroup(ctx context.Context, groupID string, user *models.User) (*models.Participant, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.enroll(ctx, group.ID, group.Status, user)
}

// enroll creates the seat, copying the user's contact data. Capacity,
// roster freeze, and duplicate membership are enforced by the store in one
// transaction.
func (s *InviteService) enroll(ctx context.Context, groupID, status string, user *models.User) (*models.Participant, error) {
	if status == models.GroupClosed {
		return nil, ErrGroupClosed
	}

	p := &models.Participant{
		GroupID: groupID,
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Phone:   user.Phone,
	}
	if err := s.store.AddParticipant(ctx, p); err != nil {
		slog.Warn("join rejected", "group_id", groupID, "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("participant joined", "group_id", groupID, "user_id", user.ID)
	record(s.events, eventlog.TypeParticipantJoins, map[string]any{
		"group_id":       groupID,
		"participant_id": p.ID,
		"user_id":        user.ID,
	})
	return p, nil
}

// OpenGroups lists groups still accepting participants, invite tokens
// stripped. An empty managerID lists every open group (the authenticated
// browse page); a manager ID scopes it to that manager's public page.
func (s *InviteService) OpenGroups(ctx context.Context, managerID string) ([]models.GroupSummary, error) {
	groups, err := s.store.ListOpenGroups(ctx, managerID)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].InviteToken = ""
	}
	return groups, nil
}
