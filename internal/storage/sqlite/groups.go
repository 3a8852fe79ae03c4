package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

const groupColumns = "id, name, description, capacity, prize_value, initial_share, monthly_increment, payment_day, late_fee, start_month, status, manager_id, invite_token, created_at"

func scanGroup(row interface{ Scan(...any) error }) (*models.Group, error) {
	g := &models.Group{}
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Capacity, &g.PrizeValue, &g.InitialShare,
		&g.MonthlyIncrement, &g.PaymentDay, &g.LateFee, &g.StartMonth, &g.Status,
		&g.ManagerID, &g.InviteToken, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// CreateGroup persists a new group, generating ID, invite token, status and
// CreatedAt if unset.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.InviteToken == "" {
		group.InviteToken = uuid.New().String()
	}
	if group.Status == "" {
		group.Status = models.GroupAwaiting
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = nowUnix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO groups (id, name, description, capacity, prize_value, initial_share,
			monthly_increment, payment_day, late_fee, start_month, status, manager_id, invite_token, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Description, group.Capacity, group.PrizeValue, group.InitialShare,
		group.MonthlyIncrement, group.PaymentDay, group.LateFee, group.StartMonth, group.Status,
		group.ManagerID, group.InviteToken, group.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	g, err := scanGroup(s.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

const groupSummarySelect = `
	SELECT g.id, g.name, g.description, g.capacity, g.prize_value, g.initial_share,
	       g.monthly_increment, g.payment_day, g.late_fee, g.start_month, g.status,
	       g.manager_id, g.invite_token, g.created_at,
	       COALESCE(u.name, ''),
	       COUNT(DISTINCT p.id),
	       COUNT(DISTINCT CASE WHEN i.status = 'paid' THEN i.id END),
	       COUNT(DISTINCT CASE WHEN i.status = 'late' THEN i.id END),
	       COUNT(DISTINCT i.id)
	FROM groups g
	LEFT JOIN users u ON u.id = g.manager_id
	LEFT JOIN participants p ON p.group_id = g.id
	LEFT JOIN installments i ON i.group_id = g.id`

func scanGroupSummary(rows interface{ Scan(...any) error }) (*models.GroupSummary, error) {
	g := &models.GroupSummary{}
	err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.Capacity, &g.PrizeValue, &g.InitialShare,
		&g.MonthlyIncrement, &g.PaymentDay, &g.LateFee, &g.StartMonth, &g.Status,
		&g.ManagerID, &g.InviteToken, &g.CreatedAt,
		&g.ManagerName, &g.ParticipantCount, &g.PaidCount, &g.LateCount, &g.InstallmentCount)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *SQLiteStore) queryGroupSummaries(ctx context.Context, where string, args ...any) ([]models.GroupSummary, error) {
	q := groupSummarySelect + " " + where + " GROUP BY g.id ORDER BY g.created_at DESC"
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.GroupSummary
	for rows.Next() {
		g, err := scanGroupSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// GetGroupByToken retrieves a group summary by its invite token.
func (s *SQLiteStore) GetGroupByToken(ctx context.Context, token string) (*models.GroupSummary, error) {
	groups, err := s.queryGroupSummaries(ctx, "WHERE g.invite_token = ?", token)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, storage.ErrNotFound
	}
	return &groups[0], nil
}

// ListGroups retrieves all groups with occupancy and payment counters.
// A non-empty managerID restricts the result to that manager's groups.
func (s *SQLiteStore) ListGroups(ctx context.Context, managerID string) ([]models.GroupSummary, error) {
	if managerID == "" {
		return s.queryGroupSummaries(ctx, "")
	}
	return s.queryGroupSummaries(ctx, "WHERE g.manager_id = ?", managerID)
}

// ListOpenGroups retrieves not-yet-closed groups, for the public invite page.
// A non-empty managerID restricts the result to that manager's groups.
func (s *SQLiteStore) ListOpenGroups(ctx context.Context, managerID string) ([]models.GroupSummary, error) {
	if managerID == "" {
		return s.queryGroupSummaries(ctx, "WHERE g.status != 'closed'")
	}
	return s.queryGroupSummaries(ctx, "WHERE g.manager_id = ? AND g.status != 'closed'", managerID)
}

// UpdateGroup updates the contract fields of an existing group.
// The invite token is managed separately via SetInviteToken.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE groups SET name = ?, description = ?, capacity = ?, prize_value = ?,
			initial_share = ?, monthly_increment = ?, payment_day = ?, late_fee = ?,
			start_month = ?, status = ?
		WHERE id = ?`,
		group.Name, group.Description, group.Capacity, group.PrizeValue,
		group.InitialShare, group.MonthlyIncrement, group.PaymentDay, group.LateFee,
		group.StartMonth, group.Status, group.ID)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteGroup removes a group; participants, installments and draw entries
// cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetInviteToken replaces the group's invite token, invalidating previously
// shared links.
func (s *SQLiteStore) SetInviteToken(ctx context.Context, id, token string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET invite_token = ? WHERE id = ?", token, id)
	if err != nil {
		return fmt.Errorf("failed to set invite token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
