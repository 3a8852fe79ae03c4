package models

// Participant is one person's seat in one group. Contact fields are copied
// from the linked user at join time (or typed in by the manager for seats
// without an account) so the group roster stands on its own.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string `json:"id"`

	// GroupID references the owning group.
	GroupID string `json:"group_id"`

	// UserID optionally links the seat to a registered account. Empty for
	// seats the manager added manually.
	UserID string `json:"user_id,omitempty"`

	// Name, Email, Phone are the roster contact data.
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	// DrawOrder is the payout position assigned by the draw, 1..M, unique
	// within the group. Zero means not yet drawn.
	DrawOrder int `json:"draw_order,omitempty"`

	// ContemplationMonth mirrors DrawOrder: the two are kept numerically
	// identical by every draw operation.
	ContemplationMonth int `json:"contemplation_month,omitempty"`

	// CreatedAt is the Unix timestamp when the seat was created.
	CreatedAt int64 `json:"created_at"`
}

// ParticipantSummary is a participant row augmented with installment counters
// for the roster listing.
type ParticipantSummary struct {
	Participant
	PaidCount        int `json:"paid_count"`
	LateCount        int `json:"late_count"`
	InstallmentCount int `json:"installment_count"`
}

// DrawResult is one row of the draw read path: the roster with assigned
// positions and the draw timestamp (zero when the seat was never drawn).
type DrawResult struct {
	Participant
	DrawnAt int64 `json:"drawn_at,omitempty"`
}
