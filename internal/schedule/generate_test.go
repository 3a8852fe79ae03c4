package schedule

import (
	"errors"
	"math"
	"testing"

	"github.com/dmoura/consorciapp/internal/models"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name         string
		group        models.Group
		participants []models.Participant
		wantErr      error
		validateFunc func(t *testing.T, rows []models.Installment)
	}{
		{
			name: "three participants three months with increment",
			group: models.Group{
				ID:               "g1",
				Capacity:         3,
				InitialShare:     100.00,
				MonthlyIncrement: 10.00,
				PaymentDay:       15,
				StartMonth:       "2024-01-01",
			},
			participants: []models.Participant{
				{ID: "p1"}, {ID: "p2"}, {ID: "p3"},
			},
			validateFunc: func(t *testing.T, rows []models.Installment) {
				if len(rows) != 9 {
					t.Fatalf("installments: expected 9, got %d", len(rows))
				}
				wantAmounts := map[int]float64{1: 100.00, 2: 110.00, 3: 120.00}
				for _, row := range rows {
					if row.Amount != wantAmounts[row.MonthNumber] {
						t.Errorf("month %d amount = %v, want %v", row.MonthNumber, row.Amount, wantAmounts[row.MonthNumber])
					}
					if row.Status != models.InstallmentPending {
						t.Errorf("status = %q, want pending", row.Status)
					}
					if row.PaidOn != "" || row.LateFee != 0 {
						t.Errorf("fresh row has paid fields: paid_on=%q fee=%v", row.PaidOn, row.LateFee)
					}
				}
				// First participant's first month: due on payment day of start month.
				if rows[0].DueDate != "2024-01-15" {
					t.Errorf("due date = %q, want 2024-01-15", rows[0].DueDate)
				}
				if rows[0].ReferenceMonth != "2024-01-01" {
					t.Errorf("reference month = %q, want 2024-01-01", rows[0].ReferenceMonth)
				}
			},
		},
		{
			name: "year rolls over",
			group: models.Group{
				ID:           "g2",
				Capacity:     3,
				InitialShare: 50,
				PaymentDay:   5,
				StartMonth:   "2024-11-01",
			},
			participants: []models.Participant{{ID: "p1"}},
			validateFunc: func(t *testing.T, rows []models.Installment) {
				wantDue := []string{"2024-11-05", "2024-12-05", "2025-01-05"}
				for i, row := range rows {
					if row.DueDate != wantDue[i] {
						t.Errorf("month %d due = %q, want %q", i+1, row.DueDate, wantDue[i])
					}
				}
			},
		},
		{
			name: "amounts rounded to 2 decimals",
			group: models.Group{
				ID:               "g3",
				Capacity:         2,
				InitialShare:     33.333,
				MonthlyIncrement: 0.111,
				PaymentDay:       1,
				StartMonth:       "2024-06-01",
			},
			participants: []models.Participant{{ID: "p1"}},
			validateFunc: func(t *testing.T, rows []models.Installment) {
				want := []float64{33.33, 33.44}
				for i, row := range rows {
					if math.Abs(row.Amount-want[i]) > 1e-9 {
						t.Errorf("month %d amount = %v, want %v", i+1, row.Amount, want[i])
					}
				}
			},
		},
		{
			name: "month count follows capacity not roster size",
			group: models.Group{
				ID:           "g4",
				Capacity:     5,
				InitialShare: 10,
				PaymentDay:   10,
				StartMonth:   "2024-03-01",
			},
			participants: []models.Participant{{ID: "p1"}, {ID: "p2"}},
			validateFunc: func(t *testing.T, rows []models.Installment) {
				if len(rows) != 10 {
					t.Errorf("installments: expected 2x5=10, got %d", len(rows))
				}
			},
		},
		{
			name: "empty roster fails",
			group: models.Group{
				ID:         "g5",
				Capacity:   3,
				StartMonth: "2024-01-01",
				PaymentDay: 1,
			},
			participants: nil,
			wantErr:      ErrNoParticipants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Generate(&tt.group, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			tt.validateFunc(t, rows)
		})
	}
}

func TestGenerateInvalidStartMonth(t *testing.T) {
	group := models.Group{ID: "g", Capacity: 1, StartMonth: "January 2024", PaymentDay: 1}
	_, err := Generate(&group, []models.Participant{{ID: "p1"}})
	if err == nil {
		t.Fatal("expected error for malformed start month")
	}
}
