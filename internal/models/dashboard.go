package models

// Overview is the admin/manager dashboard aggregate. For a manager the
// counters cover only the groups they own.
type Overview struct {
	TotalGroups         int     `json:"total_groups"`
	ActiveGroups        int     `json:"active_groups"`
	TotalParticipants   int     `json:"total_participants"`
	PaidInstallments    int     `json:"paid_installments"`
	LateInstallments    int     `json:"late_installments"`
	PendingInstallments int     `json:"pending_installments"`
	TotalCollected      float64 `json:"total_collected"`   // paid amounts plus applied fees
	TotalOutstanding    float64 `json:"total_outstanding"` // pending and late amounts

	RecentGroups []GroupSummary `json:"recent_groups"`
}

// MemberGroupStats is one row of a member's dashboard: their standing in one
// group they hold a seat in.
type MemberGroupStats struct {
	GroupID            string  `json:"group_id"`
	GroupName          string  `json:"group_name"`
	GroupStatus        string  `json:"group_status"`
	PrizeValue         float64 `json:"prize_value"`
	DrawOrder          int     `json:"draw_order,omitempty"`
	ContemplationMonth int     `json:"contemplation_month,omitempty"`
	PaidCount          int     `json:"paid_count"`
	LateCount          int     `json:"late_count"`
	InstallmentCount   int     `json:"installment_count"`
	TotalPaid          float64 `json:"total_paid"`
}
