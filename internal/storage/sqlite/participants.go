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

const participantColumns = "id, group_id, user_id, name, email, phone, draw_order, contemplation_month, created_at"

func scanParticipant(row interface{ Scan(...any) error }) (*models.Participant, error) {
	p := &models.Participant{}
	var userID sql.NullString
	var order, month sql.NullInt64
	err := row.Scan(&p.ID, &p.GroupID, &userID, &p.Name, &p.Email, &p.Phone, &order, &month, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.UserID = userID.String
	p.DrawOrder = int(order.Int64)
	p.ContemplationMonth = int(month.Int64)
	return p, nil
}

// AddParticipant enrolls a person in a group. The group lookup, capacity
// check, schedule-frozen check, duplicate-membership check and insert all run
// in one transaction, so two racing joins cannot both take the last seat.
func (s *SQLiteStore) AddParticipant(ctx context.Context, p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = nowUnix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var capacity int
		err := tx.QueryRowContext(ctx,
			"SELECT capacity FROM groups WHERE id = ?", p.GroupID).Scan(&capacity)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get group: %w", err)
		}

		var generated int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM installments WHERE group_id = ?", p.GroupID).Scan(&generated); err != nil {
			return fmt.Errorf("failed to count installments: %w", err)
		}
		if generated > 0 {
			return storage.ErrScheduleStarted
		}

		if p.UserID != "" {
			var existing int
			if err := tx.QueryRowContext(ctx,
				"SELECT COUNT(*) FROM participants WHERE group_id = ? AND user_id = ?",
				p.GroupID, p.UserID).Scan(&existing); err != nil {
				return fmt.Errorf("failed to check membership: %w", err)
			}
			if existing > 0 {
				return storage.ErrAlreadyMember
			}
		}

		var seats int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM participants WHERE group_id = ?", p.GroupID).Scan(&seats); err != nil {
			return fmt.Errorf("failed to count participants: %w", err)
		}
		if seats >= capacity {
			return storage.ErrGroupFull
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO participants (id, group_id, user_id, name, email, phone, draw_order, contemplation_month, created_at)
			VALUES (?, ?, ?, ?, ?, ?, NULL, NULL, ?)`,
			p.ID, p.GroupID, nullable(p.UserID), p.Name, p.Email, p.Phone, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
		return nil
	})
}

// GetParticipant retrieves a participant by ID.
func (s *SQLiteStore) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	p, err := scanParticipant(s.db.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// GetSeat retrieves the seat a user holds in a group, or ErrNotFound when
// they are not enrolled.
func (s *SQLiteStore) GetSeat(ctx context.Context, groupID, userID string) (*models.Participant, error) {
	p, err := scanParticipant(s.db.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE group_id = ? AND user_id = ?", groupID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}
	return p, nil
}

// ListParticipants retrieves a group's roster in insertion order, the stable
// iteration order the schedule generator and the draw rely on.
func (s *SQLiteStore) ListParticipants(ctx context.Context, groupID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE group_id = ? ORDER BY rowid", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// ListParticipantSummaries retrieves the roster with installment counters,
// drawn seats first.
func (s *SQLiteStore) ListParticipantSummaries(ctx context.Context, groupID string) ([]models.ParticipantSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.group_id, p.user_id, p.name, p.email, p.phone, p.draw_order, p.contemplation_month, p.created_at,
		       COUNT(CASE WHEN i.status = 'paid' THEN i.id END),
		       COUNT(CASE WHEN i.status = 'late' THEN i.id END),
		       COUNT(i.id)
		FROM participants p
		LEFT JOIN installments i ON i.participant_id = p.id
		WHERE p.group_id = ?
		GROUP BY p.id
		ORDER BY p.draw_order IS NULL, p.draw_order, p.rowid`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var out []models.ParticipantSummary
	for rows.Next() {
		var ps models.ParticipantSummary
		var userID sql.NullString
		var order, month sql.NullInt64
		err := rows.Scan(&ps.ID, &ps.GroupID, &userID, &ps.Name, &ps.Email, &ps.Phone, &order, &month, &ps.CreatedAt,
			&ps.PaidCount, &ps.LateCount, &ps.InstallmentCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		ps.UserID = userID.String
		ps.DrawOrder = int(order.Int64)
		ps.ContemplationMonth = int(month.Int64)
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return out, nil
}

// UpdateParticipant replaces the roster contact data and returns the row.
func (s *SQLiteStore) UpdateParticipant(ctx context.Context, id, name, email, phone string) (*models.Participant, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE participants SET name = ?, email = ?, phone = ? WHERE id = ?",
		name, email, phone, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, storage.ErrNotFound
	}
	return s.GetParticipant(ctx, id)
}

// DeleteParticipant removes a seat; its installments and draw entries
// cascade.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
