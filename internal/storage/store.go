// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/dmoura/consorciapp/internal/models"
)

// Sentinel errors the store reports for precondition violations. Multi-step
// operations check their precondition inside the same transaction as their
// writes, so a violated precondition never leaves partial state.
var (
	ErrNotFound         = errors.New("not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrAlreadyGenerated = errors.New("installments already generated for this group")
	ErrAlreadyDrawn     = errors.New("draw already performed for this group")
	ErrAlreadyPaid      = errors.New("installment already paid")
	ErrGroupFull        = errors.New("group has no open seats")
	ErrAlreadyMember    = errors.New("user already holds a seat in this group")
	ErrScheduleStarted  = errors.New("installments already generated; roster is frozen")
)

// UserUpdate carries the admin-editable user fields. Nil means keep.
type UserUpdate struct {
	Name   *string
	Role   *string
	Active *bool
}

// ProfileUpdate carries the self-service profile fields. Nil means keep.
type ProfileUpdate struct {
	Name   *string
	Phone  *string
	PixKey *string
}

// InstallmentFilter narrows ListInstallments. GroupID is required; the rest
// are optional. UserID scopes the result to seats linked to that account
// (the member read path).
type InstallmentFilter struct {
	GroupID       string
	ParticipantID string
	Status        string
	UserID        string
}

// Store defines the persistence operations the services depend on. The
// abstraction allows swapping storage backends without changing the service
// layer; the bundled implementation is SQLite.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	DeactivateUser(ctx context.Context, id string) error
	CountAdmins(ctx context.Context) (int, error)

	// Groups.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	GetGroupByToken(ctx context.Context, token string) (*models.GroupSummary, error)
	ListGroups(ctx context.Context, managerID string) ([]models.GroupSummary, error)
	ListOpenGroups(ctx context.Context, managerID string) ([]models.GroupSummary, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, id string) error
	SetInviteToken(ctx context.Context, id, token string) error

	// Participants. AddParticipant enforces, inside one transaction, that
	// the group exists, has an open seat, has no generated installments,
	// and (for linked seats) that the user is not already enrolled.
	AddParticipant(ctx context.Context, p *models.Participant) error
	GetParticipant(ctx context.Context, id string) (*models.Participant, error)
	GetSeat(ctx context.Context, groupID, userID string) (*models.Participant, error)
	ListParticipants(ctx context.Context, groupID string) ([]models.Participant, error)
	ListParticipantSummaries(ctx context.Context, groupID string) ([]models.ParticipantSummary, error)
	UpdateParticipant(ctx context.Context, id, name, email, phone string) (*models.Participant, error)
	DeleteParticipant(ctx context.Context, id string) error

	// Installments. InsertInstallments is all-or-nothing and fails with
	// ErrAlreadyGenerated if any row exists for the group. PayInstallment
	// computes the late fee from the group's configuration and the as-of
	// date. ReverseInstallment reports ErrNotFound for a row that is
	// missing or not currently paid.
	InsertInstallments(ctx context.Context, groupID string, rows []models.Installment) error
	CountInstallments(ctx context.Context, groupID string) (int, error)
	GetInstallment(ctx context.Context, id string) (*models.InstallmentDetail, error)
	ListInstallments(ctx context.Context, f InstallmentFilter) ([]models.InstallmentDetail, error)
	PayInstallment(ctx context.Context, id, paidOn, note string) (*models.Installment, error)
	ReverseInstallment(ctx context.Context, id string) (*models.Installment, error)
	PromoteOverdue(ctx context.Context, groupID, asOf string) (int64, error)
	ListDefaulters(ctx context.Context, groupID, managerID string) ([]models.InstallmentDetail, error)
	ListUserInstallments(ctx context.Context, userID string) ([]models.InstallmentDetail, error)

	// Draw. ApplyDraw assigns positions 1..len(orderedIDs) in slice order
	// and appends one log entry per participant, all in one transaction;
	// without force it fails with ErrAlreadyDrawn if a log exists, with
	// force it clears the log and every order first. AdjustDraw rewrites
	// orders and the whole log from a validated full remapping.
	ApplyDraw(ctx context.Context, groupID string, orderedIDs []string, force bool) error
	AdjustDraw(ctx context.Context, groupID string, mapping map[string]int) error
	ListDrawResults(ctx context.Context, groupID string) ([]models.DrawResult, error)
	ListDrawEntries(ctx context.Context, groupID string) ([]models.DrawEntry, error)
	CountDrawEntries(ctx context.Context, groupID string) (int, error)

	// Dashboards.
	Overview(ctx context.Context, managerID string) (*models.Overview, error)
	MemberOverview(ctx context.Context, userID string) ([]models.MemberGroupStats, error)

	// Close releases any resources held by the store.
	Close() error
}
