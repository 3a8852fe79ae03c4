package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

func TestInviteService(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	manager := createManager(t, store)
	groups := NewGroupService(store, nil)
	svc := NewInviteService(store, nil)

	newMember := func(t *testing.T, name, email string) *models.User {
		t.Helper()
		u := &models.User{Name: name, Email: email, PasswordHash: "x", Role: models.RoleMember, Active: true, Phone: "11 99999-0000"}
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		return u
	}

	t.Run("TokenInfo resolves the group without leaking the token", func(t *testing.T) {
		g := createGroup(t, groups, manager.ID, 3)

		info, err := svc.TokenInfo(ctx, g.InviteToken)
		if err != nil {
			t.Fatalf("TokenInfo failed: %v", err)
		}
		if info.ID != g.ID {
			t.Errorf("group = %q, want %q", info.ID, g.ID)
		}
		if info.InviteToken != "" {
			t.Error("invite token leaked in response")
		}
		if info.SeatsLeft() != 3 {
			t.Errorf("seats left = %d, want 3", info.SeatsLeft())
		}
	})

	t.Run("unknown token reports not found", func(t *testing.T) {
		if _, err := svc.TokenInfo(ctx, "bogus"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Join copies the user's contact data onto the seat", func(t *testing.T) {
		g := createGroup(t, groups, manager.ID, 3)
		user := newMember(t, "Ana", "ana-invite@example.com")

		p, err := svc.Join(ctx, g.InviteToken, user)
		if err != nil {
			t.Fatalf("Join failed: %v", err)
		}
		if p.UserID != user.ID || p.Name != "Ana" || p.Phone != user.Phone {
			t.Errorf("seat = %+v", p)
		}
	})

	t.Run("Join rejects a second seat for the same account", func(t *testing.T) {
		g := createGroup(t, groups, manager.ID, 3)
		user := newMember(t, "Bia", "bia-invite@example.com")

		if _, err := svc.Join(ctx, g.InviteToken, user); err != nil {
			t.Fatalf("Join failed: %v", err)
		}
		if _, err := svc.Join(ctx, g.InviteToken, user); !errors.Is(err, storage.ErrAlreadyMember) {
			t.Errorf("error = %v, want ErrAlreadyMember", err)
		}
	})

	t.Run("Join fails when the group is full", func(t *testing.T) {
		g := createGroup(t, groups, manager.ID, 1)
		first := newMember(t, "Caio", "caio-invite@example.com")
		second := newMember(t, "Duda", "duda-invite@example.com")

		if _, err := svc.Join(ctx, g.InviteToken, first); err != nil {
			t.Fatalf("Join failed: %v", err)
		}
		if _, err := svc.Join(ctx, g.InviteToken, second); !errors.Is(err, storage.ErrGroupFull) {
			t.Errorf("error = %v, want ErrGroupFull", err)
		}
	})

	t.Run("JoinGroup enrolls straight from the manager page", func(t *testing.T) {
		g := createGroup(t, groups, manager.ID, 3)
		user := newMember(t, "Eli", "eli-invite@example.com")

		p, err := svc.JoinGroup(ctx, g.ID, user)
		if err != nil {
			t.Fatalf("JoinGroup failed: %v", err)
		}
		if p.GroupID != g.ID || p.UserID != user.ID {
			t.Errorf("seat = %+v", p)
		}
	})

	t.Run("OpenGroups scopes to a manager and strips tokens", func(t *testing.T) {
		other := &models.User{Name: "Outro", Email: "outro-invite@example.com", PasswordHash: "x", Role: models.RoleManager, Active: true}
		if err := store.CreateUser(ctx, other); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		createGroup(t, groups, other.ID, 2)

		scoped, err := svc.OpenGroups(ctx, other.ID)
		if err != nil {
			t.Fatalf("OpenGroups failed: %v", err)
		}
		if len(scoped) != 1 {
			t.Fatalf("scoped groups = %d, want 1", len(scoped))
		}
		if scoped[0].InviteToken != "" {
			t.Error("invite token leaked")
		}

		all, err := svc.OpenGroups(ctx, "")
		if err != nil {
			t.Fatalf("OpenGroups failed: %v", err)
		}
		if len(all) <= len(scoped) {
			t.Errorf("all groups = %d, want more than %d", len(all), len(scoped))
		}
	})
}
