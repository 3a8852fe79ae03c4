package service

import (
	"context"
	"time"

	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

// DashboardService aggregates the landing-page numbers.
type DashboardService struct {
	store storage.Store
	now   func() time.Time
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(store storage.Store) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

// Overview returns the manager/admin dashboard. An empty managerID covers
// every group (the admin view). Overdue rows are swept first so the late
// counters are current.
func (s *DashboardService) Overview(ctx context.Context, managerID string) (*models.Overview, error) {
	if _, err := s.store.PromoteOverdue(ctx, "", s.now().Format("2006-01-02")); err != nil {
		return nil, err
	}
	return s.store.Overview(ctx, managerID)
}

// MemberOverview returns the member dashboard: one row per seat the user
// holds.
func (s *DashboardService) MemberOverview(ctx context.Context, userID string) ([]models.MemberGroupStats, error) {
	if _, err := s.store.PromoteOverdue(ctx, "", s.now().Format("2006-01-02")); err != nil {
		return nil, err
	}
	return s.store.MemberOverview(ctx, userID)
}
