package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
	"github.com/dmoura/consorciapp/internal/storage/sqlite"
)

// setupStore creates a throwaway SQLite store for service tests.
func setupStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "consorciapp-svc-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createManager(t *testing.T, store storage.Store) *models.User {
	t.Helper()
	u := &models.User{
		Name:         "Marina",
		Email:        "marina-" + t.Name() + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleManager,
		Active:       true,
	}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

func createGroup(t *testing.T, svc *GroupService, managerID string, capacity int) *models.Group {
	t.Helper()
	g := &models.Group{
		Name:             "Moto Zero KM",
		Capacity:         capacity,
		PrizeValue:       18000,
		InitialShare:     150.00,
		MonthlyIncrement: 5.00,
		PaymentDay:       10,
		LateFee:          10.00,
		StartMonth:       "2024-03-01",
		Status:           models.GroupAwaiting,
	}
	if err := svc.Create(context.Background(), g, managerID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return g
}

func TestGroupService(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	manager := createManager(t, store)
	svc := NewGroupService(store, nil)

	t.Run("Create normalizes start month and issues a token", func(t *testing.T) {
		g := &models.Group{
			Name:         "Viagem",
			Capacity:     5,
			InitialShare: 80,
			PaymentDay:   5,
			StartMonth:   "2024-06-17",
		}
		if err := svc.Create(ctx, g, manager.ID); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if g.StartMonth != "2024-06-01" {
			t.Errorf("start_month = %q, want 2024-06-01", g.StartMonth)
		}
		if g.InviteToken == "" {
			t.Error("expected invite token")
		}
		if g.Status != models.GroupAwaiting {
			t.Errorf("status = %q, want awaiting", g.Status)
		}
	})

	t.Run("Create rejects a malformed start month", func(t *testing.T) {
		g := &models.Group{Name: "X", Capacity: 3, InitialShare: 50, PaymentDay: 5, StartMonth: "junho/2024"}
		if err := svc.Create(ctx, g, manager.ID); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("error = %v, want ErrInvalidDate", err)
		}
	})

	t.Run("GenerateSchedule activates the group", func(t *testing.T) {
		g := createGroup(t, svc, manager.ID, 3)
		for _, name := range []string{"Ana", "Bia"} {
			if err := svc.AddParticipant(ctx, &models.Participant{GroupID: g.ID, Name: name}); err != nil {
				t.Fatalf("AddParticipant failed: %v", err)
			}
		}

		n, err := svc.GenerateSchedule(ctx, g.ID)
		if err != nil {
			t.Fatalf("GenerateSchedule failed: %v", err)
		}
		// 2 participants x 3 months (capacity fixes the month count).
		if n != 6 {
			t.Errorf("installments = %d, want 6", n)
		}

		got, err := svc.Get(ctx, g.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Status != models.GroupActive {
			t.Errorf("status = %q, want active", got.Status)
		}
	})

	t.Run("GenerateSchedule runs once", func(t *testing.T) {
		g := createGroup(t, svc, manager.ID, 2)
		if err := svc.AddParticipant(ctx, &models.Participant{GroupID: g.ID, Name: "Ana"}); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		if _, err := svc.GenerateSchedule(ctx, g.ID); err != nil {
			t.Fatalf("GenerateSchedule failed: %v", err)
		}
		if _, err := svc.GenerateSchedule(ctx, g.ID); !errors.Is(err, storage.ErrAlreadyGenerated) {
			t.Errorf("second run error = %v, want ErrAlreadyGenerated", err)
		}
	})

	t.Run("financial terms freeze after generation", func(t *testing.T) {
		g := createGroup(t, svc, manager.ID, 2)
		if err := svc.AddParticipant(ctx, &models.Participant{GroupID: g.ID, Name: "Ana"}); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		if _, err := svc.GenerateSchedule(ctx, g.ID); err != nil {
			t.Fatalf("GenerateSchedule failed: %v", err)
		}

		edited := *g
		edited.InitialShare = 999
		if _, err := svc.Update(ctx, &edited); !errors.Is(err, storage.ErrScheduleStarted) {
			t.Errorf("error = %v, want ErrScheduleStarted", err)
		}

		renamed := *g
		renamed.Name = "Novo Nome"
		got, err := svc.Update(ctx, &renamed)
		if err != nil {
			t.Fatalf("rename failed: %v", err)
		}
		if got.Name != "Novo Nome" {
			t.Errorf("name = %q", got.Name)
		}
	})

	t.Run("closed groups reject mutation", func(t *testing.T) {
		g := createGroup(t, svc, manager.ID, 3)
		if _, err := svc.Close(ctx, g.ID); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		err := svc.AddParticipant(ctx, &models.Participant{GroupID: g.ID, Name: "Ana"})
		if !errors.Is(err, ErrGroupClosed) {
			t.Errorf("AddParticipant error = %v, want ErrGroupClosed", err)
		}
		if _, err := svc.GenerateSchedule(ctx, g.ID); !errors.Is(err, ErrGroupClosed) {
			t.Errorf("GenerateSchedule error = %v, want ErrGroupClosed", err)
		}
	})

	t.Run("RotateInviteToken invalidates the old link", func(t *testing.T) {
		g := createGroup(t, svc, manager.ID, 3)
		old := g.InviteToken

		fresh, err := svc.RotateInviteToken(ctx, g.ID)
		if err != nil {
			t.Fatalf("RotateInviteToken failed: %v", err)
		}
		if fresh == old {
			t.Error("expected a new token")
		}

		if _, err := store.GetGroupByToken(ctx, old); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("old token lookup error = %v, want ErrNotFound", err)
		}
		if _, err := store.GetGroupByToken(ctx, fresh); err != nil {
			t.Errorf("fresh token lookup failed: %v", err)
		}
	})
}
