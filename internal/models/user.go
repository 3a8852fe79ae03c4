package models

// Roles a user account can hold. A manager owns groups; a member holds seats
// in groups; an admin can do anything a manager can, in any group.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique). Used for login.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`

	// Role is one of RoleAdmin, RoleManager, RoleMember.
	Role string `json:"role"`

	// Active indicates whether the account may log in. Deactivation is the
	// soft-delete path; user rows are never removed.
	Active bool `json:"active"`

	// Phone is an optional contact number.
	Phone string `json:"phone,omitempty"`

	// PixKey is an optional PIX payment key shown to group members.
	PixKey string `json:"pix_key,omitempty"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`
}

// UserSummary is a user row augmented with the number of groups the user
// manages, for the admin listing.
type UserSummary struct {
	User
	ManagedGroups int `json:"managed_groups"`
}
