// Package service implements the application logic between the HTTP handlers
// and the store: schedule generation, payment settlement, the draw, and the
// account surface.
package service

import (
	"errors"

	"github.com/dmoura/consorciapp/internal/eventlog"
)

var (
	// ErrEmptyRoster is returned when a draw is requested for a group with
	// no participants.
	ErrEmptyRoster = errors.New("group has no participants to draw")

	// ErrLastAdmin guards the only remaining admin account against demotion
	// and deactivation.
	ErrLastAdmin = errors.New("cannot remove the last admin account")

	// ErrGroupClosed rejects mutations on a closed group.
	ErrGroupClosed = errors.New("group is closed")

	// ErrInvalidDate is returned for a date field that is not "YYYY-MM-DD".
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
)

// record queues an audit event when a worker is wired. Services accept a nil
// worker so unit tests can skip the audit path.
func record(w *eventlog.Worker, eventType string, data any) {
	if w == nil {
		return
	}
	w.Log(eventlog.NewEvent(eventType, data))
}
