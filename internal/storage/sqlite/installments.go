package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmoura/consorciapp/internal/ledger"
	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/storage"
)

const installmentColumns = "id, group_id, participant_id, month_number, reference_month, due_date, amount, status, paid_on, late_fee, note"

func scanInstallment(row interface{ Scan(...any) error }) (*models.Installment, error) {
	i := &models.Installment{}
	var paidOn, note sql.NullString
	err := row.Scan(&i.ID, &i.GroupID, &i.ParticipantID, &i.MonthNumber, &i.ReferenceMonth,
		&i.DueDate, &i.Amount, &i.Status, &paidOn, &i.LateFee, &note)
	if err != nil {
		return nil, err
	}
	i.PaidOn = paidOn.String
	i.Note = note.String
	return i, nil
}

// InsertInstallments bulk-inserts a group's full schedule and flips the
// group to active. The existing-rows guard, every insert and the status
// change share one transaction: either the group ends up active with all
// rows created, or untouched.
func (s *SQLiteStore) InsertInstallments(ctx context.Context, groupID string, installments []models.Installment) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var existing int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM installments WHERE group_id = ?", groupID).Scan(&existing); err != nil {
			return fmt.Errorf("failed to count installments: %w", err)
		}
		if existing > 0 {
			return storage.ErrAlreadyGenerated
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO installments (id, group_id, participant_id, month_number, reference_month, due_date, amount, status, paid_on, late_fee, note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, 0, NULL)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for idx := range installments {
			row := &installments[idx]
			if row.ID == "" {
				row.ID = uuid.New().String()
			}
			_, err := stmt.ExecContext(ctx, row.ID, row.GroupID, row.ParticipantID,
				row.MonthNumber, row.ReferenceMonth, row.DueDate, row.Amount, row.Status)
			if err != nil {
				return fmt.Errorf("failed to insert installment: %w", err)
			}
		}

		// Activating inside the same transaction: a generated schedule on a
		// still-awaiting group must not be observable.
		if _, err := tx.ExecContext(ctx,
			"UPDATE groups SET status = ? WHERE id = ?", models.GroupActive, groupID); err != nil {
			return fmt.Errorf("failed to activate group: %w", err)
		}
		return nil
	})
}

// CountInstallments reports the number of installment rows for a group.
func (s *SQLiteStore) CountInstallments(ctx context.Context, groupID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM installments WHERE group_id = ?", groupID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count installments: %w", err)
	}
	return n, nil
}

const installmentDetailSelect = `
	SELECT i.id, i.group_id, i.participant_id, i.month_number, i.reference_month,
	       i.due_date, i.amount, i.status, i.paid_on, i.late_fee, i.note,
	       p.name, g.name, g.late_fee
	FROM installments i
	JOIN participants p ON p.id = i.participant_id
	JOIN groups g ON g.id = i.group_id`

func (s *SQLiteStore) queryInstallmentDetails(ctx context.Context, whereOrder string, args ...any) ([]models.InstallmentDetail, error) {
	rows, err := s.db.QueryContext(ctx, installmentDetailSelect+" "+whereOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	defer rows.Close()

	var out []models.InstallmentDetail
	for rows.Next() {
		var d models.InstallmentDetail
		var paidOn, note sql.NullString
		err := rows.Scan(&d.ID, &d.GroupID, &d.ParticipantID, &d.MonthNumber, &d.ReferenceMonth,
			&d.DueDate, &d.Amount, &d.Status, &paidOn, &d.LateFee, &note,
			&d.ParticipantName, &d.GroupName, &d.GroupLateFee)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		d.PaidOn = paidOn.String
		d.Note = note.String
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installments: %w", err)
	}
	return out, nil
}

// GetInstallment retrieves one installment with its roster and group context.
func (s *SQLiteStore) GetInstallment(ctx context.Context, id string) (*models.InstallmentDetail, error) {
	rows, err := s.queryInstallmentDetails(ctx, "WHERE i.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return &rows[0], nil
}

// ListInstallments retrieves a group's installments joined with roster
// context, narrowed by the optional filter fields, ordered by month then
// participant name. A UserID filter scopes the listing to the seats that
// user holds and takes precedence over ParticipantID.
func (s *SQLiteStore) ListInstallments(ctx context.Context, f storage.InstallmentFilter) ([]models.InstallmentDetail, error) {
	where := []string{"i.group_id = ?"}
	args := []any{f.GroupID}

	if f.UserID != "" {
		where = append(where, "p.user_id = ?")
		args = append(args, f.UserID)
	} else if f.ParticipantID != "" {
		where = append(where, "i.participant_id = ?")
		args = append(args, f.ParticipantID)
	}
	if f.Status != "" {
		where = append(where, "i.status = ?")
		args = append(args, f.Status)
	}

	clause := "WHERE " + strings.Join(where, " AND ") + " ORDER BY i.month_number, p.name"
	return s.queryInstallmentDetails(ctx, clause, args...)
}

// PayInstallment settles an installment as of paidOn. The row lookup, status
// check, fee computation from the group's configuration and the update share
// one transaction. Returns ErrAlreadyPaid for a paid row and ErrNotFound for
// an unknown ID.
func (s *SQLiteStore) PayInstallment(ctx context.Context, id, paidOn, note string) (*models.Installment, error) {
	var paid *models.Installment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT i.id, i.group_id, i.participant_id, i.month_number, i.reference_month,
			       i.due_date, i.amount, i.status, i.paid_on, i.late_fee, i.note, g.late_fee
			FROM installments i
			JOIN groups g ON g.id = i.group_id
			WHERE i.id = ?`, id)

		inst := &models.Installment{}
		var prevPaidOn, prevNote sql.NullString
		var groupFee float64
		err := row.Scan(&inst.ID, &inst.GroupID, &inst.ParticipantID, &inst.MonthNumber,
			&inst.ReferenceMonth, &inst.DueDate, &inst.Amount, &inst.Status,
			&prevPaidOn, &inst.LateFee, &prevNote, &groupFee)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get installment: %w", err)
		}

		if !ledger.CanPay(inst.Status) {
			return storage.ErrAlreadyPaid
		}

		fee, err := ledger.LateFee(groupFee, inst.DueDate, paidOn)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE installments SET status = ?, paid_on = ?, late_fee = ?, note = ?
			WHERE id = ?`,
			models.InstallmentPaid, paidOn, fee, nullable(note), id)
		if err != nil {
			return fmt.Errorf("failed to update installment: %w", err)
		}

		inst.Status = models.InstallmentPaid
		inst.PaidOn = paidOn
		inst.LateFee = fee
		inst.Note = note
		paid = inst
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// ReverseInstallment undoes a settlement: the row returns to pending with
// paid date, fee and note cleared. A missing or not-currently-paid row
// reports ErrNotFound; the next overdue sweep re-promotes the row to late
// if its due date has passed.
func (s *SQLiteStore) ReverseInstallment(ctx context.Context, id string) (*models.Installment, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE installments SET status = ?, paid_on = NULL, late_fee = 0, note = NULL
		WHERE id = ? AND status = ?`,
		models.InstallmentPending, id, models.InstallmentPaid)
	if err != nil {
		return nil, fmt.Errorf("failed to reverse installment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, storage.ErrNotFound
	}

	inst, err := scanInstallment(s.db.QueryRowContext(ctx,
		"SELECT "+installmentColumns+" FROM installments WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}
	return inst, nil
}

// PromoteOverdue flips pending rows whose due date has passed as of asOf to
// late, returning the number of rows promoted. Idempotent: promoted rows are
// no longer pending, so a second run matches nothing. An empty groupID
// sweeps every group.
func (s *SQLiteStore) PromoteOverdue(ctx context.Context, groupID, asOf string) (int64, error) {
	q := "UPDATE installments SET status = ? WHERE status = ? AND due_date < ?"
	args := []any{models.InstallmentLate, models.InstallmentPending, asOf}
	if groupID != "" {
		q += " AND group_id = ?"
		args = append(args, groupID)
	}

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to promote overdue installments: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ListDefaulters retrieves late installments ordered by due date, oldest
// first. A non-empty groupID restricts to one group; otherwise a non-empty
// managerID restricts to that manager's groups.
func (s *SQLiteStore) ListDefaulters(ctx context.Context, groupID, managerID string) ([]models.InstallmentDetail, error) {
	where := []string{"i.status = ?"}
	args := []any{models.InstallmentLate}
	if groupID != "" {
		where = append(where, "i.group_id = ?")
		args = append(args, groupID)
	} else if managerID != "" {
		where = append(where, "g.manager_id = ?")
		args = append(args, managerID)
	}

	clause := "WHERE " + strings.Join(where, " AND ") + " ORDER BY i.due_date ASC"
	return s.queryInstallmentDetails(ctx, clause, args...)
}

// ListUserInstallments retrieves every installment across all groups where
// the user holds a seat, ordered by group name then month.
func (s *SQLiteStore) ListUserInstallments(ctx context.Context, userID string) ([]models.InstallmentDetail, error) {
	return s.queryInstallmentDetails(ctx,
		"WHERE p.user_id = ? ORDER BY g.name, i.month_number", userID)
}
