package models

// DrawEntry is the immutable audit record of one participant's assigned
// payout position. The whole set for a group is deleted and recreated on a
// forced redraw or a manual adjustment; entries are never edited in place.
type DrawEntry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string `json:"id"`

	// GroupID and ParticipantID reference the owning rows.
	GroupID       string `json:"group_id"`
	ParticipantID string `json:"participant_id"`

	// Month is the assigned contemplation month (equals the draw order).
	Month int `json:"month"`

	// DrawnAt is the Unix timestamp of the draw that produced this entry.
	DrawnAt int64 `json:"drawn_at"`
}
