package ledger

import (
	"testing"

	"github.com/dmoura/consorciapp/internal/models"
)

func TestLateFee(t *testing.T) {
	tests := []struct {
		name    string
		fee     float64
		due     string
		paid    string
		want    float64
		wantErr bool
	}{
		{name: "paid after due applies fee", fee: 15.00, due: "2024-01-15", paid: "2024-01-20", want: 15.00},
		{name: "paid on due date is on time", fee: 15.00, due: "2024-01-15", paid: "2024-01-15", want: 0},
		{name: "paid before due is on time", fee: 15.00, due: "2024-01-15", paid: "2024-01-02", want: 0},
		{name: "late across month boundary", fee: 7.50, due: "2024-01-31", paid: "2024-02-01", want: 7.50},
		{name: "late across year boundary", fee: 7.50, due: "2023-12-28", paid: "2024-01-03", want: 7.50},
		{name: "zero configured fee stays zero when late", fee: 0, due: "2024-01-15", paid: "2024-03-01", want: 0},
		{name: "malformed due date", fee: 15, due: "15/01/2024", paid: "2024-01-20", wantErr: true},
		{name: "malformed payment date", fee: 15, due: "2024-01-15", paid: "someday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LateFee(tt.fee, tt.due, tt.paid)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LateFee failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("LateFee = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverdue(t *testing.T) {
	if !Overdue("2024-01-15", "2024-01-16") {
		t.Error("day after due date should be overdue")
	}
	if Overdue("2024-01-15", "2024-01-15") {
		t.Error("due date itself is not overdue")
	}
	if Overdue("2024-02-01", "2024-01-28") {
		t.Error("future due date is not overdue")
	}
}

func TestTransitions(t *testing.T) {
	if !CanPay(models.InstallmentPending) || !CanPay(models.InstallmentLate) {
		t.Error("pending and late must be payable")
	}
	if CanPay(models.InstallmentPaid) {
		t.Error("paid must not be payable again")
	}
	if !CanReverse(models.InstallmentPaid) {
		t.Error("paid must be reversible")
	}
	if CanReverse(models.InstallmentPending) || CanReverse(models.InstallmentLate) {
		t.Error("only paid rows are reversible")
	}
}
