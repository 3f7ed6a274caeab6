package policy

import (
	"time"

	"agency/internal/models"
	"agency/internal/services/status"

	"github.com/shopspring/decimal"
)

// monthsBetween counts whole months from start to end, at least one.
func monthsBetween(start, end time.Time) int {
	start, end = status.DateOf(start), status.DateOf(end)
	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	if end.Day() > start.Day() {
		months++
	}
	if months < 1 {
		return 1
	}
	return months
}

// buildInstallments splits the premium into count monthly payments due from
// the start date on. Amounts are rounded to cents; the last installment
// absorbs the rounding difference.
func buildInstallments(premium decimal.Decimal, start time.Time, count int, pendingID uint) []*models.Payment {
	share := premium.Div(decimal.NewFromInt(int64(count))).Round(2)
	remaining := premium

	payments := make([]*models.Payment, 0, count)
	for i := 0; i < count; i++ {
		amount := share
		if i == count-1 {
			amount = remaining
		}
		remaining = remaining.Sub(amount)

		payments = append(payments, &models.Payment{
			SequenceNumber:  i + 1,
			Amount:          amount,
			PaidAmount:      decimal.Zero,
			DueDate:         status.DateOf(start).AddDate(0, i, 0),
			PaymentStatusID: pendingID,
		})
	}
	return payments
}
