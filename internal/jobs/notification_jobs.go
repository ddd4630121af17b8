package jobs

import (
	"context"
	"fmt"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/logger"
	"biliran-rental-backend/internal/utils"
)

// SendOverdueReminders notifies customers holding a vehicle past its
// scheduled return.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		released, err := jr.bookingRepo.ListByStatus(ctx, domain.BookingStatusReleased)
		if err != nil {
			logger.Error("Failed to list released bookings", "error", err)
			return
		}

		now := jr.now()
		count := 0
		for _, b := range released {
			due, err := utils.CombineDateTime(b.ReturnDate, b.ReturnTime, jr.loc)
			if err != nil {
				logger.Warn("Skipping booking with invalid return date", "booking_id", b.ID, "error", err)
				continue
			}
			if !now.After(due) {
				continue
			}
			jr.notify(ctx, &domain.Notification{
				Type:            domain.NotificationOverdueReminder,
				RecipientUserID: b.CustomerID,
				BookingID:       b.ID,
				Title:           "Vehicle return overdue",
				Message: fmt.Sprintf("Booking %s was due back on %s at %s. Late fees apply until the vehicle is returned.",
					b.ReferenceCode, b.ReturnDate, clockOrMidnight(b.ReturnTime)),
			})
			count++
		}

		logger.Info("Sent overdue reminders", "count", count)
	})
}

// SendPickupReminders notifies customers whose approved booking starts
// tomorrow in the booking timezone.
func (jr *JobRunner) SendPickupReminders() {
	jr.runWithRecovery("SendPickupReminders", func() {
		ctx := context.Background()

		approved, err := jr.bookingRepo.ListByStatus(ctx, domain.BookingStatusApproved)
		if err != nil {
			logger.Error("Failed to list approved bookings", "error", err)
			return
		}

		tomorrow := jr.now().In(jr.loc).AddDate(0, 0, 1).Format(utils.DateLayout)
		count := 0
		for _, b := range approved {
			if b.PickupDate != tomorrow {
				continue
			}
			jr.notify(ctx, &domain.Notification{
				Type:            domain.NotificationPickupReminder,
				RecipientUserID: b.CustomerID,
				BookingID:       b.ID,
				Title:           "Pickup tomorrow",
				Message: fmt.Sprintf("Booking %s is scheduled for pickup on %s at %s.",
					b.ReferenceCode, b.PickupDate, clockOrMidnight(b.PickupTime)),
			})
			count++
		}

		logger.Info("Sent pickup reminders", "date", tomorrow, "count", count)
	})
}

func (jr *JobRunner) notify(ctx context.Context, n *domain.Notification) {
	if jr.notifier == nil || n.RecipientUserID == "" {
		return
	}
	jr.notifier.Notify(ctx, n)
}

func clockOrMidnight(clock string) string {
	if clock == "" {
		return "00:00"
	}
	return clock
}
