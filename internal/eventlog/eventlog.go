// Package eventlog records domain events (draws, payments, joins) to an
// append-only table, off the request path via a buffered worker.
package eventlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is one audit record. Data holds arbitrary event-specific fields and
// is stored as JSON.
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"event_type"`
	Data      any    `json:"event_data,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// NewEvent builds an event of the given type with a fresh ID and timestamp.
func NewEvent(eventType string, data any) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Data:      data,
		CreatedAt: time.Now().Unix(),
	}
}

// Logger persists events.
type Logger interface {
	Save(ctx context.Context, e Event) error
}

// Event types recorded by the services.
const (
	TypeUserRegistered   = "user.registered"
	TypeGroupCreated     = "group.created"
	TypeScheduleCreated  = "schedule.generated"
	TypeDrawExecuted     = "draw.executed"
	TypeDrawAdjusted     = "draw.adjusted"
	TypeInstallmentPaid  = "installment.paid"
	TypePaymentReversed  = "installment.reversed"
	TypeParticipantJoins = "participant.joined"
)
