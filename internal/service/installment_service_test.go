package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

func TestInstallmentService(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	manager := createManager(t, store)
	groups := NewGroupService(store, nil)

	// Fixed clock between months 1 and 2: month 1 (due 2024-03-10) is
	// overdue, month 2 (due 2024-04-10) is not.
	fixedNow := func() time.Time {
		return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	}

	newGroupWithSchedule := func(t *testing.T) *models.Group {
		t.Helper()
		g := createGroup(t, groups, manager.ID, 3)
		if err := groups.AddParticipant(ctx, &models.Participant{GroupID: g.ID, Name: "Ana"}); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		if _, err := groups.GenerateSchedule(ctx, g.ID); err != nil {
			t.Fatalf("GenerateSchedule failed: %v", err)
		}
		return g
	}

	t.Run("List sweeps overdue rows to late", func(t *testing.T) {
		g := newGroupWithSchedule(t)
		svc := NewInstallmentService(store, nil)
		svc.now = fixedNow

		rows, err := svc.List(ctx, storage.InstallmentFilter{GroupID: g.ID})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("rows = %d, want 3", len(rows))
		}
		if rows[0].Status != models.InstallmentLate {
			t.Errorf("month 1 status = %q, want late", rows[0].Status)
		}
		if rows[1].Status != models.InstallmentPending {
			t.Errorf("month 2 status = %q, want pending", rows[1].Status)
		}
	})

	t.Run("Pay defaults the settlement date to today", func(t *testing.T) {
		g := newGroupWithSchedule(t)
		svc := NewInstallmentService(store, nil)
		svc.now = fixedNow

		rows, err := svc.List(ctx, storage.InstallmentFilter{GroupID: g.ID})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}

		// Month 1 due 2024-03-10, "today" is 2024-03-20: late fee applies.
		paid, err := svc.Pay(ctx, rows[0].ID, "", "")
		if err != nil {
			t.Fatalf("Pay failed: %v", err)
		}
		if paid.PaidOn != "2024-03-20" {
			t.Errorf("paid_on = %q, want 2024-03-20", paid.PaidOn)
		}
		if paid.LateFee != 10.00 {
			t.Errorf("fee = %v, want 10.00", paid.LateFee)
		}
	})

	t.Run("Pay rejects a malformed date", func(t *testing.T) {
		g := newGroupWithSchedule(t)
		svc := NewInstallmentService(store, nil)
		svc.now = fixedNow

		rows, _ := svc.List(ctx, storage.InstallmentFilter{GroupID: g.ID})
		if _, err := svc.Pay(ctx, rows[0].ID, "20/03/2024", ""); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("error = %v, want ErrInvalidDate", err)
		}
	})

	t.Run("Reverse returns the row to pending", func(t *testing.T) {
		g := newGroupWithSchedule(t)
		svc := NewInstallmentService(store, nil)
		svc.now = fixedNow

		rows, _ := svc.List(ctx, storage.InstallmentFilter{GroupID: g.ID})
		if _, err := svc.Pay(ctx, rows[0].ID, "2024-03-09", ""); err != nil {
			t.Fatalf("Pay failed: %v", err)
		}
		reversed, err := svc.Reverse(ctx, rows[0].ID)
		if err != nil {
			t.Fatalf("Reverse failed: %v", err)
		}
		if reversed.Status != models.InstallmentPending {
			t.Errorf("status = %q, want pending", reversed.Status)
		}
	})

	t.Run("Defaulters lists only late rows", func(t *testing.T) {
		g := newGroupWithSchedule(t)
		svc := NewInstallmentService(store, nil)
		svc.now = fixedNow

		late, err := svc.Defaulters(ctx, g.ID, "")
		if err != nil {
			t.Fatalf("Defaulters failed: %v", err)
		}
		if len(late) != 1 {
			t.Fatalf("late rows = %d, want 1", len(late))
		}
		if late[0].MonthNumber != 1 {
			t.Errorf("month = %d, want 1", late[0].MonthNumber)
		}
	})

	t.Run("ForUser scopes to linked seats", func(t *testing.T) {
		g := createGroup(t, groups, manager.ID, 2)
		member := &models.User{Name: "Gui", Email: "gui-" + t.Name() + "@example.com", PasswordHash: "x", Role: models.RoleMember, Active: true}
		if err := store.CreateUser(ctx, member); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if err := groups.AddParticipant(ctx, &models.Participant{GroupID: g.ID, UserID: member.ID, Name: member.Name}); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		if err := groups.AddParticipant(ctx, &models.Participant{GroupID: g.ID, Name: "Sem Conta"}); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		if _, err := groups.GenerateSchedule(ctx, g.ID); err != nil {
			t.Fatalf("GenerateSchedule failed: %v", err)
		}

		svc := NewInstallmentService(store, nil)
		svc.now = fixedNow

		mine, err := svc.ForUser(ctx, member.ID)
		if err != nil {
			t.Fatalf("ForUser failed: %v", err)
		}
		if len(mine) != 2 {
			t.Fatalf("rows = %d, want 2 (the linked seat only)", len(mine))
		}
		for _, row := range mine {
			if row.ParticipantName != "Gui" {
				t.Errorf("participant = %q, want Gui", row.ParticipantName)
			}
		}
	})
}
