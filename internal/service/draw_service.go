package service

import (
	"context"
	"log/slog"

	"github.com/dmoura/consorciapp/internal/draw"
	"github.com/dmoura/consorciapp/internal/eventlog"
	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

// DrawService runs and adjusts the contemplation draw. The random source is
// injectable so tests can fix the permutation.
type DrawService struct {
	store  storage.Store
	events *eventlog.Worker
	intn   func(n int) int
}

// NewDrawService creates a DrawService using the default random source.
func NewDrawService(store storage.Store, events *eventlog.Worker) *DrawService {
	return &DrawService{store: store, events: events, intn: draw.IntN}
}

// Run shuffles the group's current roster and persists the resulting
// positions. Without force, a second run is rejected; with force the
// previous draw log and positions are discarded first.
func (s *DrawService) Run(ctx context.Context, groupID string, force bool) ([]models.DrawResult, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Status == models.GroupClosed {
		return nil, ErrGroupClosed
	}

	participants, err := s.store.ListParticipants(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, ErrEmptyRoster
	}

	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	shuffled := draw.Shuffle(ids, s.intn)

	if err := s.store.ApplyDraw(ctx, groupID, shuffled, force); err != nil {
		slog.Error("ApplyDraw failed", "group_id", groupID, "force", force, "error", err)
		return nil, err
	}

	slog.Info("draw executed", "group_id", groupID, "participants", len(shuffled), "force", force)
	record(s.events, eventlog.TypeDrawExecuted, map[string]any{
		"group_id":     groupID,
		"participants": len(shuffled),
		"force":        force,
	})
	return s.store.ListDrawResults(ctx, groupID)
}

// Adjust applies a manual full remapping of positions. The mapping must
// cover every participant exactly once with positions 1..M.
func (s *DrawService) Adjust(ctx context.Context, groupID string, mapping map[string]int) ([]models.DrawResult, error) {
	participants, err := s.store.ListParticipants(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, ErrEmptyRoster
	}

	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	if err := draw.ValidateAdjustment(mapping, ids); err != nil {
		return nil, err
	}

	if err := s.store.AdjustDraw(ctx, groupID, mapping); err != nil {
		slog.Error("AdjustDraw failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("draw adjusted", "group_id", groupID)
	record(s.events, eventlog.TypeDrawAdjusted, map[string]any{
		"group_id": groupID,
	})
	return s.store.ListDrawResults(ctx, groupID)
}

// Results returns the roster with assigned positions, drawn seats first.
func (s *DrawService) Results(ctx context.Context, groupID string) ([]models.DrawResult, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListDrawResults(ctx, groupID)
}

// Log returns the raw draw audit entries for a group in month order.
func (s *DrawService) Log(ctx context.Context, groupID string) ([]models.DrawEntry, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListDrawEntries(ctx, groupID)
}
