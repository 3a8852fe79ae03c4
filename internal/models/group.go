package models

// Group lifecycle statuses.
const (
	GroupAwaiting = "awaiting" // collecting participants, schedule not started
	GroupActive   = "active"
	GroupClosed   = "closed"
)

// Group is the financial contract template for one consortium circle.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// Description is free text shown on the invite page.
	Description string `json:"description,omitempty"`

	// Capacity is the target participant count N. It also fixes the number
	// of months in the installment schedule, regardless of how many seats
	// are actually filled when the schedule is generated.
	Capacity int `json:"capacity"`

	// PrizeValue is the payout the contemplated participant receives.
	PrizeValue float64 `json:"prize_value"`

	// InitialShare is the base amount of the first month's installment.
	InitialShare float64 `json:"initial_share"`

	// MonthlyIncrement is added to the share once per elapsed month:
	// month k costs InitialShare + (k-1)*MonthlyIncrement.
	MonthlyIncrement float64 `json:"monthly_increment"`

	// PaymentDay is the due day-of-month, 1..28 so every month has it.
	PaymentDay int `json:"payment_day"`

	// LateFee is the fixed surcharge applied when an installment is settled
	// after its due date.
	LateFee float64 `json:"late_fee"`

	// StartMonth is the calendar month ("2006-01-02", day part ignored) of
	// the first installment.
	StartMonth string `json:"start_month"`

	// Status is one of GroupAwaiting, GroupActive, GroupClosed.
	Status string `json:"status"`

	// ManagerID references the owning manager's user ID.
	ManagerID string `json:"manager_id"`

	// InviteToken is the opaque credential for self-service enrollment.
	// Regenerable; regeneration invalidates previously shared links.
	InviteToken string `json:"invite_token,omitempty"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// GroupSummary is a group row augmented with occupancy and payment counters
// for listings and dashboards.
type GroupSummary struct {
	Group
	ManagerName      string `json:"manager_name,omitempty"`
	ParticipantCount int    `json:"participant_count"`
	PaidCount        int    `json:"paid_count"`
	LateCount        int    `json:"late_count"`
	InstallmentCount int    `json:"installment_count"`
}

// SeatsLeft returns the number of open seats.
func (g *GroupSummary) SeatsLeft() int {
	return g.Capacity - g.ParticipantCount
}
