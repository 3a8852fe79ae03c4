package models

// Installment statuses. "late" is never written by a caller: a pending row
// whose due date has passed is promoted to late by the read-time sweep.
const (
	InstallmentPending = "pending"
	InstallmentLate    = "late"
	InstallmentPaid    = "paid"
)

// Installment is one month's obligation for one participant. Rows are created
// in bulk exactly once per group by the schedule generator and mutated only
// by pay/reverse.
type Installment struct {
	// ID is the unique identifier for the installment (UUID format).
	ID string `json:"id"`

	// GroupID and ParticipantID reference the owning rows.
	GroupID       string `json:"group_id"`
	ParticipantID string `json:"participant_id"`

	// MonthNumber is the 1-based position in the schedule (1..N).
	MonthNumber int `json:"month_number"`

	// ReferenceMonth is the calendar month this installment covers
	// ("2006-01-02", first day of the month).
	ReferenceMonth string `json:"reference_month"`

	// DueDate is ReferenceMonth's year/month with the group's payment day.
	DueDate string `json:"due_date"`

	// Amount is the base share for this month, 2-decimal precision.
	Amount float64 `json:"amount"`

	// Status is one of InstallmentPending, InstallmentLate, InstallmentPaid.
	Status string `json:"status"`

	// PaidOn is the settlement date ("2006-01-02"), empty while unpaid.
	PaidOn string `json:"paid_on,omitempty"`

	// LateFee is the surcharge applied at settlement; 0 unless paid late.
	LateFee float64 `json:"late_fee"`

	// Note is optional free text recorded at settlement.
	Note string `json:"note,omitempty"`
}

// InstallmentDetail is an installment joined with roster and group context
// for listings.
type InstallmentDetail struct {
	Installment
	ParticipantName string `json:"participant_name"`
	GroupName       string `json:"group_name,omitempty"`
	GroupLateFee    float64 `json:"group_late_fee"`
}
