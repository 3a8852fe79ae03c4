package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmoura/consorciapp/internal/auth"
	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

func newAuthService(t *testing.T, store storage.Store) (*AuthService, *auth.PasswordAuthenticator) {
	t.Helper()
	authenticator := auth.NewPasswordAuthenticator(store)
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(authenticator, tokens, store, nil), authenticator
}

func TestAuthService(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	svc, _ := newAuthService(t, store)

	t.Run("Register creates a member and returns a valid token", func(t *testing.T) {
		user, token, err := svc.Register(ctx, "Ana", "ana@example.com", "segredo1")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.Role != models.RoleMember {
			t.Errorf("role = %q, want member", user.Role)
		}
		if token == "" {
			t.Fatal("expected a token")
		}

		tokens := auth.NewJWTManager("test-secret", time.Hour)
		claims, err := tokens.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != user.ID || claims.Role != models.RoleMember {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("Register rejects short passwords", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "Bia", "bia@example.com", "123")
		if !errors.Is(err, auth.ErrWeakPassword) {
			t.Errorf("error = %v, want ErrWeakPassword", err)
		}
	})

	t.Run("Login verifies the password", func(t *testing.T) {
		if _, _, err := svc.Register(ctx, "Caio", "caio@example.com", "segredo1"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		if _, _, err := svc.Login(ctx, "caio@example.com", "segredo1"); err != nil {
			t.Errorf("Login failed: %v", err)
		}
		if _, _, err := svc.Login(ctx, "caio@example.com", "errada99"); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("deactivated accounts cannot log in", func(t *testing.T) {
		user, _, err := svc.Register(ctx, "Duda", "duda@example.com", "segredo1")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if err := store.DeactivateUser(ctx, user.ID); err != nil {
			t.Fatalf("DeactivateUser failed: %v", err)
		}

		if _, _, err := svc.Login(ctx, "duda@example.com", "segredo1"); !errors.Is(err, auth.ErrAccountDisabled) {
			t.Errorf("error = %v, want ErrAccountDisabled", err)
		}
	})

	t.Run("ChangePassword requires the current one", func(t *testing.T) {
		user, _, err := svc.Register(ctx, "Enzo", "enzo@example.com", "segredo1")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		if err := svc.ChangePassword(ctx, user.ID, "errada99", "novasenha"); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
		if err := svc.ChangePassword(ctx, user.ID, "segredo1", "novasenha"); err != nil {
			t.Fatalf("ChangePassword failed: %v", err)
		}
		if _, _, err := svc.Login(ctx, "enzo@example.com", "novasenha"); err != nil {
			t.Errorf("Login with new password failed: %v", err)
		}
	})
}

func TestUserServiceLastAdminGuard(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	authenticator := auth.NewPasswordAuthenticator(store)
	svc := NewUserService(authenticator, store)

	admin, err := svc.Create(ctx, "Root", "root@example.com", "segredo1", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("last admin cannot be deactivated", func(t *testing.T) {
		if err := svc.Deactivate(ctx, admin.ID); !errors.Is(err, ErrLastAdmin) {
			t.Errorf("error = %v, want ErrLastAdmin", err)
		}
	})

	t.Run("last admin cannot be demoted", func(t *testing.T) {
		role := models.RoleMember
		if _, err := svc.Update(ctx, admin.ID, storage.UserUpdate{Role: &role}); !errors.Is(err, ErrLastAdmin) {
			t.Errorf("error = %v, want ErrLastAdmin", err)
		}
	})

	t.Run("a second admin unlocks the guard", func(t *testing.T) {
		if _, err := svc.Create(ctx, "Backup", "backup@example.com", "segredo1", models.RoleAdmin); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := svc.Deactivate(ctx, admin.ID); err != nil {
			t.Errorf("Deactivate failed: %v", err)
		}
	})
}

func TestSeedAdmin(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	authenticator := auth.NewPasswordAuthenticator(store)

	user, err := authenticator.SeedAdmin(ctx, "Admin", "admin@example.com", "segredo1")
	if err != nil {
		t.Fatalf("SeedAdmin failed: %v", err)
	}
	if user == nil || user.Role != models.RoleAdmin {
		t.Fatalf("seeded user = %+v", user)
	}

	// Second start is a no-op.
	again, err := authenticator.SeedAdmin(ctx, "Admin", "admin@example.com", "segredo1")
	if err != nil {
		t.Fatalf("second SeedAdmin failed: %v", err)
	}
	if again != nil {
		t.Error("expected nil on repeat seeding")
	}
}
