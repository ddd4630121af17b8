package service

import (
	"context"
	"fmt"
	"time"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/logger"
	"biliran-rental-backend/internal/utils"
)

// Add-ons and promo codes are only editable until the vehicle leaves.
func priceEditable(status domain.BookingStatus) bool {
	return status == domain.BookingStatusPending || status == domain.BookingStatusApproved
}

func (s *bookingService) ToggleAddon(ctx context.Context, actor domain.Actor, bookingID, addon string, enabled bool) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.ToggleAddon", "bookingID", bookingID, "addon", addon, "enabled", enabled)
	if _, ok := s.catalog.AddonPrice(addon); !ok {
		err := domain.NewValidationError("unknown add-on %q", addon)
		logger.ExitMethodWithError("bookingService.ToggleAddon", err, "bookingID", bookingID)
		return nil, err
	}

	b, err := s.mutate(ctx, bookingID, func(b *domain.Booking, now time.Time, _ *outbox) error {
		if err := requireParty(actor, b); err != nil {
			return err
		}
		if !priceEditable(b.Status()) {
			return &domain.InvalidTransitionError{Operation: "change add-ons on", Current: b.Status()}
		}
		if b.Addons == nil {
			b.Addons = map[string]bool{}
		}
		b.Addons[addon] = enabled
		s.recalculate(b)
		b.UpdatedOn = now
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.ToggleAddon", err, "bookingID", bookingID)
		return nil, err
	}
	logger.ExitMethod("bookingService.ToggleAddon", "bookingID", bookingID, "total", b.Payment.Total)
	return b, nil
}

// ApplyPromo replaces the booking's promo code. Unknown codes clear it and
// yield no discount. An empty code removes the discount.
func (s *bookingService) ApplyPromo(ctx context.Context, actor domain.Actor, bookingID, code string) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.ApplyPromo", "bookingID", bookingID, "code", code)
	b, err := s.mutate(ctx, bookingID, func(b *domain.Booking, now time.Time, _ *outbox) error {
		if err := requireParty(actor, b); err != nil {
			return err
		}
		if !priceEditable(b.Status()) {
			return &domain.InvalidTransitionError{Operation: "apply a promo code to", Current: b.Status()}
		}
		b.PromoCode = s.knownPromo(code)
		s.recalculate(b)
		b.UpdatedOn = now
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.ApplyPromo", err, "bookingID", bookingID)
		return nil, err
	}
	logger.ExitMethod("bookingService.ApplyPromo", "bookingID", bookingID,
		"discount", b.Payment.DiscountAmount, "total", b.Payment.Total)
	return b, nil
}

// PostLateFee adds a manual late charge while the vehicle is out or awaiting
// inspection.
func (s *bookingService) PostLateFee(ctx context.Context, actor domain.Actor, bookingID string, amount int64) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.PostLateFee", "bookingID", bookingID, "amount", amount)
	if amount <= 0 {
		err := domain.NewValidationError("late fee must be positive")
		logger.ExitMethodWithError("bookingService.PostLateFee", err, "bookingID", bookingID)
		return nil, err
	}

	b, err := s.mutate(ctx, bookingID, func(b *domain.Booking, now time.Time, out *outbox) error {
		if err := requireOwner(actor, b); err != nil {
			return err
		}
		status := b.Status()
		if status != domain.BookingStatusReleased && status != domain.BookingStatusReturned {
			return &domain.InvalidTransitionError{Operation: "post a late fee on", Current: status}
		}
		b.Payment.PostedLateFees += amount
		s.recalculate(b)
		b.UpdatedOn = now
		out.add(b.CustomerID, domain.NotificationPaymentUpdated, b.ID, "Late Fee Posted",
			fmt.Sprintf("A late fee of %d was added to booking %s", amount, b.ReferenceCode))
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.PostLateFee", err, "bookingID", bookingID)
		return nil, err
	}
	logger.ExitMethod("bookingService.PostLateFee", "bookingID", bookingID, "lateFees", b.Payment.LateFees)
	return b, nil
}

// AccrueLateFee raises the accrued late fee of a released booking to the
// hourly charge owed at now. It never lowers it and leaves posted fees alone.
func (s *bookingService) AccrueLateFee(ctx context.Context, bookingID string, now time.Time) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.AccrueLateFee", "bookingID", bookingID, "now", now)
	b, err := s.mutate(ctx, bookingID, func(b *domain.Booking, _ time.Time, _ *outbox) error {
		status := b.Status()
		if status != domain.BookingStatusReleased {
			return &domain.InvalidTransitionError{Operation: "accrue late fees on", Current: status}
		}
		scheduled, err := s.scheduledReturn(b)
		if err != nil {
			return domain.NewValidationError("invalid scheduled return: %v", err)
		}
		if fee := utils.LateFee(scheduled, now); fee > b.Payment.AccruedLateFees {
			b.Payment.AccruedLateFees = fee
			s.recalculate(b)
			b.UpdatedOn = now
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.AccrueLateFee", err, "bookingID", bookingID)
		return nil, err
	}
	logger.ExitMethod("bookingService.AccrueLateFee", "bookingID", bookingID, "lateFees", b.Payment.LateFees)
	return b, nil
}

// RecordPayment stores a payment the owner confirmed outside the system.
func (s *bookingService) RecordPayment(ctx context.Context, actor domain.Actor, bookingID string, status domain.PaymentStatus, paid int64) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.RecordPayment", "bookingID", bookingID, "status", status, "paid", paid)
	if !status.IsValid() {
		err := domain.NewValidationError("invalid payment status %q", status)
		logger.ExitMethodWithError("bookingService.RecordPayment", err, "bookingID", bookingID)
		return nil, err
	}
	if paid < 0 {
		err := domain.NewValidationError("paid amount cannot be negative")
		logger.ExitMethodWithError("bookingService.RecordPayment", err, "bookingID", bookingID)
		return nil, err
	}

	b, err := s.mutate(ctx, bookingID, func(b *domain.Booking, now time.Time, out *outbox) error {
		if err := requireOwner(actor, b); err != nil {
			return err
		}
		b.Payment.Status = status
		b.Payment.Paid = paid
		b.UpdatedOn = now
		out.add(b.CustomerID, domain.NotificationPaymentUpdated, b.ID, "Payment Updated",
			fmt.Sprintf("Payment for booking %s is now %s (%d of %d)", b.ReferenceCode, status, paid, b.Payment.Total))
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.RecordPayment", err, "bookingID", bookingID)
		return nil, err
	}
	logger.ExitMethod("bookingService.RecordPayment", "bookingID", bookingID, "balance", b.Payment.Balance())
	return b, nil
}
