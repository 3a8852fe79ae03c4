// Package ledger holds the payment state machine rules: which transitions
// exist, when the fixed late fee applies, and when a pending installment
// counts as overdue. The rules are pure; storage applies them inside its
// transactions.
package ledger

import (
	"fmt"
	"time"

	"github.com/dmoura/consorciapp/internal/models"
)

const dateLayout = "2006-01-02"

// LateFee returns the surcharge for settling on paidOn an installment due on
// dueDate: the group's configured fee when paidOn is strictly after dueDate,
// otherwise 0. Settling exactly on the due date is on time.
func LateFee(groupFee float64, dueDate, paidOn string) (float64, error) {
	due, err := time.Parse(dateLayout, dueDate)
	if err != nil {
		return 0, fmt.Errorf("invalid due date %q: %w", dueDate, err)
	}
	paid, err := time.Parse(dateLayout, paidOn)
	if err != nil {
		return 0, fmt.Errorf("invalid payment date %q: %w", paidOn, err)
	}
	if paid.After(due) {
		return groupFee, nil
	}
	return 0, nil
}

// Overdue reports whether a pending installment due on dueDate should be
// promoted to late as of asOf. Both are ISO dates; the comparison is lexical,
// which is equivalent for valid "2006-01-02" strings and matches the SQL the
// sweep runs.
func Overdue(dueDate, asOf string) bool {
	return dueDate < asOf
}

// CanPay reports whether an installment in the given status accepts a pay
// transition. Both pending and late rows are payable; paying a paid row is
// the caller's AlreadyPaid error.
func CanPay(status string) bool {
	return status == models.InstallmentPending || status == models.InstallmentLate
}

// CanReverse reports whether an installment accepts a reverse transition.
// Only paid rows do; reversal always lands in pending and the next sweep
// re-promotes it to late if the due date has passed.
func CanReverse(status string) bool {
	return status == models.InstallmentPaid
}
