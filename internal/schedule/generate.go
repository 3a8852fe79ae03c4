// Package schedule computes the full installment schedule for a group.
// It is pure: persistence and the generated-only-once guard live in storage.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dmoura/consorciapp/internal/models"
)

// ErrNoParticipants is returned when a schedule is requested for a group
// with an empty roster.
var ErrNoParticipants = errors.New("group has no participants")

const dateLayout = "2006-01-02"

// Generate produces one installment per participant per month, in roster
// order then month order. The number of months is the group's capacity N,
// even when fewer seats are filled. Month k is due on the group's payment
// day of start month + (k-1), and costs InitialShare + (k-1)*MonthlyIncrement
// rounded to 2 decimals.
func Generate(group *models.Group, participants []models.Participant) ([]models.Installment, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	start, err := time.Parse(dateLayout, group.StartMonth)
	if err != nil {
		return nil, fmt.Errorf("invalid start month %q: %w", group.StartMonth, err)
	}

	months := group.Capacity
	rows := make([]models.Installment, 0, len(participants)*months)
	for _, p := range participants {
		for k := 1; k <= months; k++ {
			// time.Date normalizes out-of-range months, so the year
			// rolls over automatically.
			ref := time.Date(start.Year(), start.Month()+time.Month(k-1), 1, 0, 0, 0, 0, time.UTC)
			due := time.Date(ref.Year(), ref.Month(), group.PaymentDay, 0, 0, 0, 0, time.UTC)

			rows = append(rows, models.Installment{
				GroupID:        group.ID,
				ParticipantID:  p.ID,
				MonthNumber:    k,
				ReferenceMonth: ref.Format(dateLayout),
				DueDate:        due.Format(dateLayout),
				Amount:         round2(group.InitialShare + float64(k-1)*group.MonthlyIncrement),
				Status:         models.InstallmentPending,
			})
		}
	}
	return rows, nil
}

// round2 rounds to currency precision (2 decimals).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
