package service

import (
	"context"
	"log/slog"

	"github.com/dmoura/consorciapp/internal/auth"
	"github.com/dmoura/consorciapp/internal/eventlog"
	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

// AuthService handles registration, login, and the self-service account
// surface.
type AuthService struct {
	authenticator *auth.PasswordAuthenticator
	tokens        *auth.JWTManager
	store         storage.Store
	events        *eventlog.Worker
}

// NewAuthService creates an AuthService.
func NewAuthService(authenticator *auth.PasswordAuthenticator, tokens *auth.JWTManager, store storage.Store, events *eventlog.Worker) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		tokens:        tokens,
		store:         store,
		events:        events,
	}
}

// Register creates a member account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	user, err := s.authenticator.Register(ctx, name, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("user registered", "user_id", user.ID)
	record(s.events, eventlog.TypeUserRegistered, map[string]any{
		"user_id": user.ID,
	})
	return user, token, nil
}

// Login authenticates credentials and returns the user with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("login rejected", "email", email)
		return nil, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}
	slog.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// UpdateProfile edits the caller's own contact fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd storage.ProfileUpdate) (*models.User, error) {
	return s.store.UpdateProfile(ctx, userID, upd)
}

// ChangePassword verifies the current password before setting a new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if err := s.authenticator.ChangePassword(ctx, userID, current, next); err != nil {
		return err
	}
	slog.Info("password changed", "user_id", userID)
	return nil
}
