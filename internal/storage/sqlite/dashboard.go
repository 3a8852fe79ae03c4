package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmoura/consorciapp/internal/models"
)

// Overview aggregates group, participant and installment counters plus
// collected/outstanding totals. A non-empty managerID restricts everything
// to that manager's groups.
func (s *SQLiteStore) Overview(ctx context.Context, managerID string) (*models.Overview, error) {
	where := ""
	var args []any
	if managerID != "" {
		where = "WHERE g.manager_id = ?"
		args = append(args, managerID)
	}

	ov := &models.Overview{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT g.id),
		       COUNT(DISTINCT CASE WHEN g.status = 'active' THEN g.id END),
		       COUNT(DISTINCT p.id)
		FROM groups g
		LEFT JOIN participants p ON p.group_id = g.id `+where, args...).
		Scan(&ov.TotalGroups, &ov.ActiveGroups, &ov.TotalParticipants)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate overview: %w", err)
	}

	// Money totals come from installments alone. Joining participants and
	// installments in one pass would repeat each installment once per seat
	// and inflate the sums.
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(CASE WHEN i.status = 'paid' THEN i.id END),
		       COUNT(CASE WHEN i.status = 'late' THEN i.id END),
		       COUNT(CASE WHEN i.status = 'pending' THEN i.id END),
		       COALESCE(SUM(CASE WHEN i.status = 'paid' THEN i.amount + i.late_fee END), 0),
		       COALESCE(SUM(CASE WHEN i.status IN ('pending', 'late') THEN i.amount END), 0)
		FROM installments i
		JOIN groups g ON g.id = i.group_id `+where, args...).
		Scan(&ov.PaidInstallments, &ov.LateInstallments, &ov.PendingInstallments,
			&ov.TotalCollected, &ov.TotalOutstanding)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate installment totals: %w", err)
	}

	recentWhere := "WHERE g.status = 'active'"
	recentArgs := []any{}
	if managerID != "" {
		recentWhere += " AND g.manager_id = ?"
		recentArgs = append(recentArgs, managerID)
	}
	recent, err := s.queryGroupSummaries(ctx, recentWhere, recentArgs...)
	if err != nil {
		return nil, err
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}
	ov.RecentGroups = recent
	return ov, nil
}

// MemberOverview retrieves the dashboard rows for every seat the user holds,
// one per group.
func (s *SQLiteStore) MemberOverview(ctx context.Context, userID string) ([]models.MemberGroupStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.status, g.prize_value, p.draw_order, p.contemplation_month,
		       COUNT(CASE WHEN i.status = 'paid' THEN i.id END),
		       COUNT(CASE WHEN i.status = 'late' THEN i.id END),
		       COUNT(i.id),
		       COALESCE(SUM(CASE WHEN i.status = 'paid' THEN i.amount END), 0)
		FROM participants p
		JOIN groups g ON g.id = p.group_id
		LEFT JOIN installments i ON i.participant_id = p.id
		WHERE p.user_id = ?
		GROUP BY g.id, p.id
		ORDER BY g.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list member overview: %w", err)
	}
	defer rows.Close()

	var out []models.MemberGroupStats
	for rows.Next() {
		var st models.MemberGroupStats
		var order, month sql.NullInt64
		err := rows.Scan(&st.GroupID, &st.GroupName, &st.GroupStatus, &st.PrizeValue,
			&order, &month, &st.PaidCount, &st.LateCount, &st.InstallmentCount, &st.TotalPaid)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member overview: %w", err)
		}
		st.DrawOrder = int(order.Int64)
		st.ContemplationMonth = int(month.Int64)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member overview: %w", err)
	}
	return out, nil
}
