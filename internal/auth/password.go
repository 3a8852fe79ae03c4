package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

// UserStorage is the slice of the store the authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	CountAdmins(ctx context.Context) (int, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
}

// NewPasswordAuthenticator creates a password-based authenticator backed by
// the given user store.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{storage: storage}
}

// ValidatePassword checks the minimum password requirement.
func (a *PasswordAuthenticator) ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new account with a hashed password. Self-registered
// accounts always start as members; admins promote them afterwards.
func (a *PasswordAuthenticator) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return a.createUser(ctx, name, email, password, models.RoleMember)
}

// CreateWithRole creates an account with an explicit role. Used by the admin
// user-management surface, where the caller's role is already checked.
func (a *PasswordAuthenticator) CreateWithRole(ctx context.Context, name, email, password, role string) (*models.User, error) {
	return a.createUser(ctx, name, email, password, role)
}

func (a *PasswordAuthenticator) createUser(ctx context.Context, name, email, password, role string) (*models.User, error) {
	if err := a.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := a.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
// Deactivated accounts are rejected even with the right password.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := a.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (a *PasswordAuthenticator) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := a.storage.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if err := a.ValidatePassword(next); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return a.storage.UpdatePassword(ctx, userID, string(hash))
}

// SeedAdmin creates the bootstrap admin account on first start. It is a
// no-op when any admin already exists, so restarts are safe.
func (a *PasswordAuthenticator) SeedAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	n, err := a.storage.CountAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if n > 0 {
		return nil, nil
	}

	user, err := a.createUser(ctx, name, email, password, models.RoleAdmin)
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
