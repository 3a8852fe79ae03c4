package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

// ApplyDraw assigns positions 1..M to the participants in orderedIDs order,
// keeping draw order and contemplation month numerically identical, and
// appends one log entry per participant. The already-drawn guard, the
// optional forced reset and every write share one transaction.
func (s *SQLiteStore) ApplyDraw(ctx context.Context, groupID string, orderedIDs []string, force bool) error {
	drawnAt := nowUnix()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var existing int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM draw_entries WHERE group_id = ?", groupID).Scan(&existing); err != nil {
			return fmt.Errorf("failed to count draw entries: %w", err)
		}
		if existing > 0 {
			if !force {
				return storage.ErrAlreadyDrawn
			}
			// Full reset: the log and every assigned order go, then the
			// draw below starts from a clean slate.
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM draw_entries WHERE group_id = ?", groupID); err != nil {
				return fmt.Errorf("failed to clear draw log: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE participants SET draw_order = NULL, contemplation_month = NULL WHERE group_id = ?", groupID); err != nil {
				return fmt.Errorf("failed to clear draw orders: %w", err)
			}
		}

		for i, participantID := range orderedIDs {
			position := i + 1
			res, err := tx.ExecContext(ctx,
				"UPDATE participants SET draw_order = ?, contemplation_month = ? WHERE id = ? AND group_id = ?",
				position, position, participantID, groupID)
			if err != nil {
				return fmt.Errorf("failed to assign draw order: %w", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return storage.ErrNotFound
			}

			_, err = tx.ExecContext(ctx,
				"INSERT INTO draw_entries (id, group_id, participant_id, month, drawn_at) VALUES (?, ?, ?, ?, ?)",
				uuid.New().String(), groupID, participantID, position, drawnAt)
			if err != nil {
				return fmt.Errorf("failed to insert draw entry: %w", err)
			}
		}
		return nil
	})
}

// AdjustDraw applies a validated manual remapping: every participant's order
// and contemplation month are set from the mapping and the group's log is
// rewritten wholesale, all in one transaction.
func (s *SQLiteStore) AdjustDraw(ctx context.Context, groupID string, mapping map[string]int) error {
	drawnAt := nowUnix()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		// Clear first so reassignments cannot trip the per-group unique
		// constraint on draw_order mid-update.
		if _, err := tx.ExecContext(ctx,
			"UPDATE participants SET draw_order = NULL, contemplation_month = NULL WHERE group_id = ?", groupID); err != nil {
			return fmt.Errorf("failed to clear draw orders: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM draw_entries WHERE group_id = ?", groupID); err != nil {
			return fmt.Errorf("failed to clear draw log: %w", err)
		}

		for participantID, position := range mapping {
			res, err := tx.ExecContext(ctx,
				"UPDATE participants SET draw_order = ?, contemplation_month = ? WHERE id = ? AND group_id = ?",
				position, position, participantID, groupID)
			if err != nil {
				return fmt.Errorf("failed to assign draw order: %w", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return storage.ErrNotFound
			}

			_, err = tx.ExecContext(ctx,
				"INSERT INTO draw_entries (id, group_id, participant_id, month, drawn_at) VALUES (?, ?, ?, ?, ?)",
				uuid.New().String(), groupID, participantID, position, drawnAt)
			if err != nil {
				return fmt.Errorf("failed to insert draw entry: %w", err)
			}
		}
		return nil
	})
}

// ListDrawResults retrieves the roster with assigned positions and the draw
// timestamp, sorted by position with undrawn seats last.
func (s *SQLiteStore) ListDrawResults(ctx context.Context, groupID string) ([]models.DrawResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.group_id, p.user_id, p.name, p.email, p.phone, p.draw_order, p.contemplation_month, p.created_at,
		       COALESCE(d.drawn_at, 0)
		FROM participants p
		LEFT JOIN draw_entries d ON d.participant_id = p.id AND d.group_id = p.group_id
		WHERE p.group_id = ?
		ORDER BY p.draw_order IS NULL, p.draw_order, p.rowid`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draw results: %w", err)
	}
	defer rows.Close()

	var out []models.DrawResult
	for rows.Next() {
		var r models.DrawResult
		var userID sql.NullString
		var order, month sql.NullInt64
		err := rows.Scan(&r.ID, &r.GroupID, &userID, &r.Name, &r.Email, &r.Phone, &order, &month, &r.CreatedAt, &r.DrawnAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw result: %w", err)
		}
		r.UserID = userID.String
		r.DrawOrder = int(order.Int64)
		r.ContemplationMonth = int(month.Int64)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draw results: %w", err)
	}
	return out, nil
}

// ListDrawEntries retrieves the raw draw log for a group in month order.
func (s *SQLiteStore) ListDrawEntries(ctx context.Context, groupID string) ([]models.DrawEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, participant_id, month, drawn_at
		FROM draw_entries WHERE group_id = ? ORDER BY month`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draw entries: %w", err)
	}
	defer rows.Close()

	var out []models.DrawEntry
	for rows.Next() {
		var e models.DrawEntry
		if err := rows.Scan(&e.ID, &e.GroupID, &e.ParticipantID, &e.Month, &e.DrawnAt); err != nil {
			return nil, fmt.Errorf("failed to scan draw entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draw entries: %w", err)
	}
	return out, nil
}

// CountDrawEntries reports the number of draw log entries for a group.
func (s *SQLiteStore) CountDrawEntries(ctx context.Context, groupID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM draw_entries WHERE group_id = ?", groupID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count draw entries: %w", err)
	}
	return n, nil
}
