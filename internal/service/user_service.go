package service

import (
	"context"
	"log/slog"

	"github.com/dmoura/consorciapp/internal/auth"
	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

// UserService is the admin user-management surface.
type UserService struct {
	authenticator *auth.PasswordAuthenticator
	store         storage.Store
}

// NewUserService creates a UserService.
func NewUserService(authenticator *auth.PasswordAuthenticator, store storage.Store) *UserService {
	return &UserService{authenticator: authenticator, store: store}
}

// List returns every account with its managed-group count.
func (s *UserService) List(ctx context.Context) ([]models.UserSummary, error) {
	return s.store.ListUsers(ctx)
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// Create adds an account with an explicit role.
func (s *UserService) Create(ctx context.Context, name, email, password, role string) (*models.User, error) {
	user, err := s.authenticator.CreateWithRole(ctx, name, email, password, role)
	if err != nil {
		return nil, err
	}
	slog.Info("user created", "user_id", user.ID, "role", role)
	return user, nil
}

// Update edits an account's name, role, or active flag. The last admin
// cannot be demoted or deactivated.
func (s *UserService) Update(ctx context.Context, id string, upd storage.UserUpdate) (*models.User, error) {
	demotes := upd.Role != nil && *upd.Role != models.RoleAdmin
	deactivates := upd.Active != nil && !*upd.Active
	if demotes || deactivates {
		if err := s.guardLastAdmin(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.store.UpdateUser(ctx, id, upd)
}

// Deactivate soft-deletes an account. The last admin cannot be deactivated.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	if err := s.guardLastAdmin(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeactivateUser(ctx, id); err != nil {
		return err
	}
	slog.Info("user deactivated", "user_id", id)
	return nil
}

func (s *UserService) guardLastAdmin(ctx context.Context, id string) error {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != models.RoleAdmin || !user.Active {
		return nil
	}
	n, err := s.store.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastAdmin
	}
	return nil
}
