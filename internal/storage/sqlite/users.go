package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

const userColumns = "id, name, email, password_hash, role, active, phone, pix_key, created_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.Phone, &u.PixKey, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser persists a new user, generating ID and CreatedAt if unset.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = nowUnix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, active, phone, pix_key, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Active, user.Phone, user.PixKey, user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return storage.ErrEmailExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// ListUsers retrieves all users with the number of groups each manages,
// ordered by role then name.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.active, u.phone, u.pix_key, u.created_at,
		       COUNT(g.id)
		FROM users u
		LEFT JOIN groups g ON g.manager_id = u.id
		GROUP BY u.id
		ORDER BY u.role, u.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.Phone, &u.PixKey, &u.CreatedAt, &u.ManagedGroups); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// UpdateUser applies the admin-editable fields (nil keeps the current value)
// and returns the updated row.
func (s *SQLiteStore) UpdateUser(ctx context.Context, id string, upd storage.UserUpdate) (*models.User, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			name   = COALESCE(?, name),
			role   = COALESCE(?, role),
			active = COALESCE(?, active)
		WHERE id = ?`,
		upd.Name, upd.Role, upd.Active, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, storage.ErrNotFound
	}
	return s.GetUserByID(ctx, id)
}

// UpdateProfile applies the self-service profile fields (nil keeps the
// current value) and returns the updated row.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, id string, upd storage.ProfileUpdate) (*models.User, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			name    = COALESCE(?, name),
			phone   = COALESCE(?, phone),
			pix_key = COALESCE(?, pix_key)
		WHERE id = ?`,
		upd.Name, upd.Phone, upd.PixKey, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, storage.ErrNotFound
	}
	return s.GetUserByID(ctx, id)
}

// UpdatePassword replaces the stored password hash.
func (s *SQLiteStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeactivateUser soft-deletes an account; the row stays for referential
// integrity of groups and participants.
func (s *SQLiteStore) DeactivateUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET active = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountAdmins reports the number of active admin accounts. It gates the
// first-run admin seed and the last-admin guard.
func (s *SQLiteStore) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role = ? AND active = 1", models.RoleAdmin).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}
