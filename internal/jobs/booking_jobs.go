package jobs

import (
	"context"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/logger"
)

// AccrueLateFees brings the late fee of every released booking up to date
// with the current time. Bookings not yet past their return time are left
// alone.
func (jr *JobRunner) AccrueLateFees() {
	jr.runWithRecovery("AccrueLateFees", func() {
		ctx := context.Background()

		released, err := jr.bookingRepo.ListByStatus(ctx, domain.BookingStatusReleased)
		if err != nil {
			logger.Error("Failed to list released bookings", "error", err)
			return
		}

		now := jr.now()
		count := 0
		for _, b := range released {
			updated, err := jr.bookings.AccrueLateFee(ctx, b.ID, now)
			if err != nil {
				// The booking may have been returned since it was listed.
				logger.Warn("Failed to accrue late fee", "booking_id", b.ID, "error", err)
				continue
			}
			if updated.Payment.LateFees > b.Payment.LateFees {
				count++
				logger.Debug("Accrued late fee",
					"booking_id", b.ID,
					"reference", b.ReferenceCode,
					"late_fees", updated.Payment.LateFees)
			}
		}

		logger.Info("Accrued late fees", "checked", len(released), "updated", count)
	})
}
