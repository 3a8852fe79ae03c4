package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmoura/consorciapp/internal/eventlog"
	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/schedule"
	"github.com/dmoura/consorciapp/internal/storage"
)

// GroupService manages groups, their rosters, and schedule generation.
type GroupService struct {
	store  storage.Store
	events *eventlog.Worker
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store, events *eventlog.Worker) *GroupService {
	return &GroupService{store: store, events: events}
}

// Create validates and persists a new group owned by managerID. The group
// starts awaiting participants, with a fresh invite token.
func (s *GroupService) Create(ctx context.Context, group *models.Group, managerID string) error {
	start, err := time.Parse("2006-01-02", group.StartMonth)
	if err != nil {
		return fmt.Errorf("%w: start_month %q", ErrInvalidDate, group.StartMonth)
	}
	// Normalize to the first of the month; the day part carries no meaning.
	group.StartMonth = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")

	group.ManagerID = managerID
	group.Status = models.GroupAwaiting
	group.InviteToken = newInviteToken()

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return err
	}

	slog.Info("group created", "group_id", group.ID, "capacity", group.Capacity)
	record(s.events, eventlog.TypeGroupCreated, map[string]any{
		"group_id":   group.ID,
		"manager_id": managerID,
		"capacity":   group.Capacity,
	})
	return nil
}

// Get retrieves a group by ID.
func (s *GroupService) Get(ctx context.Context, id string) (*models.Group, error) {
	return s.store.GetGroup(ctx, id)
}

// List returns group summaries. An empty managerID lists every group (the
// admin view); otherwise only groups owned by that manager.
func (s *GroupService) List(ctx context.Context, managerID string) ([]models.GroupSummary, error) {
	return s.store.ListGroups(ctx, managerID)
}

// Update edits a group. Financial terms (capacity, shares, payment day, fee,
// start month) freeze once the schedule exists; name, description and status
// stay editable.
func (s *GroupService) Update(ctx context.Context, group *models.Group) (*models.Group, error) {
	current, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	n, err := s.store.CountInstallments(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	if n > 0 && termsChanged(current, group) {
		return nil, storage.ErrScheduleStarted
	}

	group.ManagerID = current.ManagerID
	group.InviteToken = current.InviteToken
	if group.Status == "" {
		group.Status = current.Status
	}
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", group.ID, "error", err)
		return nil, err
	}
	return s.store.GetGroup(ctx, group.ID)
}

func termsChanged(a, b *models.Group) bool {
	return a.Capacity != b.Capacity ||
		a.InitialShare != b.InitialShare ||
		a.MonthlyIncrement != b.MonthlyIncrement ||
		a.PaymentDay != b.PaymentDay ||
		a.LateFee != b.LateFee ||
		a.StartMonth != b.StartMonth
}

// Delete removes a group along with its roster, installments and draw log.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteGroup(ctx, id); err != nil {
		return err
	}
	slog.Info("group deleted", "group_id", id)
	return nil
}

// Close marks a group closed. Closed groups stay readable but reject any
// further mutation.
func (s *GroupService) Close(ctx context.Context, id string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Status = models.GroupClosed
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GenerateSchedule creates the full installment grid for the group's current
// roster and activates the group. It can run only once per group.
func (s *GroupService) GenerateSchedule(ctx context.Context, groupID string) (int, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return 0, err
	}
	if group.Status == models.GroupClosed {
		return 0, ErrGroupClosed
	}

	participants, err := s.store.ListParticipants(ctx, groupID)
	if err != nil {
		return 0, err
	}

	rows, err := schedule.Generate(group, participants)
	if err != nil {
		return 0, err
	}
	// The store activates the group in the same transaction as the rows.
	if err := s.store.InsertInstallments(ctx, groupID, rows); err != nil {
		slog.Error("schedule generation failed", "group_id", groupID, "error", err)
		return 0, err
	}

	slog.Info("schedule generated", "group_id", groupID,
		"participants", len(participants), "installments", len(rows))
	record(s.events, eventlog.TypeScheduleCreated, map[string]any{
		"group_id":     groupID,
		"installments": len(rows),
	})
	return len(rows), nil
}

// RotateInviteToken replaces the group's invite token, invalidating every
// previously shared link.
func (s *GroupService) RotateInviteToken(ctx context.Context, groupID string) (string, error) {
	token := newInviteToken()
	if err := s.store.SetInviteToken(ctx, groupID, token); err != nil {
		return "", err
	}
	slog.Info("invite token rotated", "group_id", groupID)
	return token, nil
}

// Seat resolves the seat a user holds in a group, ErrNotFound when they are
// not enrolled.
func (s *GroupService) Seat(ctx context.Context, groupID, userID string) (*models.Participant, error) {
	return s.store.GetSeat(ctx, groupID, userID)
}

// AddParticipant enrolls a seat added by the manager. The store enforces
// capacity, roster freeze, and duplicate membership in one transaction.
func (s *GroupService) AddParticipant(ctx context.Context, p *models.Participant) error {
	group, err := s.store.GetGroup(ctx, p.GroupID)
	if err != nil {
		return err
	}
	if group.Status == models.GroupClosed {
		return ErrGroupClosed
	}
	if err := s.store.AddParticipant(ctx, p); err != nil {
		slog.Error("AddParticipant failed", "group_id", p.GroupID, "error", err)
		return err
	}
	slog.Info("participant added", "group_id", p.GroupID, "participant_id", p.ID)
	return nil
}

// GetParticipant retrieves one seat.
func (s *GroupService) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	return s.store.GetParticipant(ctx, id)
}

// ListRoster returns the group's participants with payment counters, drawn
// seats first in contemplation order.
func (s *GroupService) ListRoster(ctx context.Context, groupID string) ([]models.ParticipantSummary, error) {
	return s.store.ListParticipantSummaries(ctx, groupID)
}

// UpdateParticipant edits a seat's contact data.
func (s *GroupService) UpdateParticipant(ctx context.Context, id, name, email, phone string) (*models.Participant, error) {
	return s.store.UpdateParticipant(ctx, id, name, email, phone)
}

// RemoveParticipant deletes a seat and, by cascade, its installments.
func (s *GroupService) RemoveParticipant(ctx context.Context, id string) error {
	if err := s.store.DeleteParticipant(ctx, id); err != nil {
		return err
	}
	slog.Info("participant removed", "participant_id", id)
	return nil
}

func newInviteToken() string {
	return uuid.NewString()
}
