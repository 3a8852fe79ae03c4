package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

func TestDrawService(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	manager := createManager(t, store)
	groups := NewGroupService(store, nil)

	roster := func(t *testing.T, g *models.Group, names ...string) {
		t.Helper()
		for _, name := range names {
			if err := groups.AddParticipant(ctx, &models.Participant{GroupID: g.ID, Name: name}); err != nil {
				t.Fatalf("AddParticipant(%s) failed: %v", name, err)
			}
		}
	}

	t.Run("Run with identity source keeps roster order", func(t *testing.T) {
		g := createGroup(t, groups, manager.ID, 3)
		roster(t, g, "Ana", "Bia", "Caio")

		svc := NewDrawService(store, nil)
		svc.intn = func(n int) int { return n - 1 } // every element stays put

		results, err := svc.Run(ctx, g.ID, false)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		want := []string{"Ana", "Bia", "Caio"}
		for i, r := range results {
			if r.Name != want[i] {
				t.Errorf("position %d = %q, want %q", i+1, r.Name, want[i])
			}
			if r.ContemplationMonth != r.DrawOrder {
				t.Errorf("contemplation month %d != order %d", r.ContemplationMonth, r.DrawOrder)
			}
		}
	})

	t.Run("Run covers every position exactly once", func(t *testing.T) {
		g := createGroup(t, groups, manager.ID, 5)
		roster(t, g, "Ana", "Bia", "Caio", "Duda", "Enzo")

		svc := NewDrawService(store, nil)
		results, err := svc.Run(ctx, g.ID, false)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		seen := make(map[int]bool)
		for _, r := range results {
			if r.DrawOrder < 1 || r.DrawOrder > 5 {
				t.Errorf("order %d out of range", r.DrawOrder)
			}
			if seen[r.DrawOrder] {
				t.Errorf("order %d assigned twice", r.DrawOrder)
			}
			seen[r.DrawOrder] = true
		}
	})

	t.Run("second Run needs force", func(t *testing.T) {
		g := createGroup(t, groups, manager.ID, 2)
		roster(t, g, "Ana", "Bia")

		svc := NewDrawService(store, nil)
		if _, err := svc.Run(ctx, g.ID, false); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if _, err := svc.Run(ctx, g.ID, false); !errors.Is(err, storage.ErrAlreadyDrawn) {
			t.Errorf("error = %v, want ErrAlreadyDrawn", err)
		}
		if _, err := svc.Run(ctx, g.ID, true); err != nil {
			t.Errorf("forced Run failed: %v", err)
		}
	})

	t.Run("empty roster is rejected", func(t *testing.T) {
		g := createGroup(t, groups, manager.ID, 3)

		svc := NewDrawService(store, nil)
		if _, err := svc.Run(ctx, g.ID, false); !errors.Is(err, ErrEmptyRoster) {
			t.Errorf("error = %v, want ErrEmptyRoster", err)
		}
	})

	t.Run("Adjust applies a validated full remapping", func(t *testing.T) {
		g := createGroup(t, groups, manager.ID, 3)
		roster(t, g, "Ana", "Bia", "Caio")

		svc := NewDrawService(store, nil)
		if _, err := svc.Run(ctx, g.ID, false); err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		participants, err := store.ListParticipants(ctx, g.ID)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		mapping := map[string]int{
			participants[0].ID: 2,
			participants[1].ID: 3,
			participants[2].ID: 1,
		}
		results, err := svc.Adjust(ctx, g.ID, mapping)
		if err != nil {
			t.Fatalf("Adjust failed: %v", err)
		}
		if results[0].Name != "Caio" {
			t.Errorf("position 1 = %q, want Caio", results[0].Name)
		}

		// Dropping one participant from the mapping must fail.
		partial := map[string]int{
			participants[0].ID: 1,
			participants[1].ID: 2,
		}
		if _, err := svc.Adjust(ctx, g.ID, partial); err == nil {
			t.Error("expected error for incomplete mapping")
		}
	})
}
