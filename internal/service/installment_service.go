package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmoura/consorciapp/internal/eventlog"
	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

// InstallmentService handles the payment ledger: listing, settlement,
// reversal, and the overdue sweep. The late status is never written
// directly; every read path first promotes overdue pending rows.
type InstallmentService struct {
	store  storage.Store
	events *eventlog.Worker
	now    func() time.Time
}

// NewInstallmentService creates an InstallmentService with the given storage
// backend.
func NewInstallmentService(store storage.Store, events *eventlog.Worker) *InstallmentService {
	return &InstallmentService{store: store, events: events, now: time.Now}
}

func (s *InstallmentService) today() string {
	return s.now().Format("2006-01-02")
}

// List returns installments matching the filter, after sweeping the group's
// overdue rows so returned statuses are current.
func (s *InstallmentService) List(ctx context.Context, f storage.InstallmentFilter) ([]models.InstallmentDetail, error) {
	if _, err := s.store.PromoteOverdue(ctx, f.GroupID, s.today()); err != nil {
		return nil, err
	}
	return s.store.ListInstallments(ctx, f)
}

// Get retrieves one installment with its roster and group context.
func (s *InstallmentService) Get(ctx context.Context, id string) (*models.InstallmentDetail, error) {
	return s.store.GetInstallment(ctx, id)
}

// Pay settles an installment. An empty paidOn defaults to today; the late
// fee follows from the payment date against the due date.
func (s *InstallmentService) Pay(ctx context.Context, id, paidOn, note string) (*models.Installment, error) {
	if paidOn == "" {
		paidOn = s.today()
	} else if _, err := time.Parse("2006-01-02", paidOn); err != nil {
		return nil, fmt.Errorf("%w: paid_on %q", ErrInvalidDate, paidOn)
	}

	inst, err := s.store.PayInstallment(ctx, id, paidOn, note)
	if err != nil {
		slog.Error("PayInstallment failed", "installment_id", id, "error", err)
		return nil, err
	}

	slog.Info("installment paid", "installment_id", id, "paid_on", paidOn, "late_fee", inst.LateFee)
	record(s.events, eventlog.TypeInstallmentPaid, map[string]any{
		"installment_id": id,
		"paid_on":        paidOn,
		"late_fee":       inst.LateFee,
	})
	return inst, nil
}

// Reverse undoes a settlement, returning the row to pending with payment
// fields cleared. The next sweep re-promotes it to late if it is overdue.
func (s *InstallmentService) Reverse(ctx context.Context, id string) (*models.Installment, error) {
	inst, err := s.store.ReverseInstallment(ctx, id)
	if err != nil {
		slog.Error("ReverseInstallment failed", "installment_id", id, "error", err)
		return nil, err
	}

	slog.Info("installment reversed", "installment_id", id)
	record(s.events, eventlog.TypePaymentReversed, map[string]any{
		"installment_id": id,
	})
	return inst, nil
}

// Defaulters lists every currently late installment, scoped to one group
// when groupID is set and to one manager's groups when managerID is set.
func (s *InstallmentService) Defaulters(ctx context.Context, groupID, managerID string) ([]models.InstallmentDetail, error) {
	if _, err := s.store.PromoteOverdue(ctx, groupID, s.today()); err != nil {
		return nil, err
	}
	return s.store.ListDefaulters(ctx, groupID, managerID)
}

// ForUser returns the installments of every seat linked to the given
// account, across all their groups.
func (s *InstallmentService) ForUser(ctx context.Context, userID string) ([]models.InstallmentDetail, error) {
	if _, err := s.store.PromoteOverdue(ctx, "", s.today()); err != nil {
		return nil, err
	}
	return s.store.ListUserInstallments(ctx, userID)
}
