package service

import (
	"context"
	"time"

	"biliran-rental-backend/internal/assessment"
	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/logger"
)

var conditionPhaseStates = map[domain.ConditionPhase][]domain.BookingStatus{
	domain.ConditionPhaseBefore: {domain.BookingStatusApproved, domain.BookingStatusReleased},
	domain.ConditionPhaseAfter:  {domain.BookingStatusReleased, domain.BookingStatusReturned},
}

// UploadCondition records the owner's inspection for one phase. A repeat
// upload replaces the fields and keeps earlier photos.
func (s *bookingService) UploadCondition(ctx context.Context, actor domain.Actor, in domain.ConditionUpload) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.UploadCondition", "bookingID", in.BookingID, "phase", in.Phase)
	if err := validateConditionUpload(in); err != nil {
		logger.ExitMethodWithError("bookingService.UploadCondition", err, "bookingID", in.BookingID)
		return nil, err
	}

	b, err := s.mutate(ctx, in.BookingID, func(b *domain.Booking, now time.Time, _ *outbox) error {
		if err := requireOwner(actor, b); err != nil {
			return err
		}
		status := b.Status()
		if !statusIn(status, conditionPhaseStates[in.Phase]) {
			return &domain.InvalidTransitionError{Operation: "record " + string(in.Phase) + "-rental condition for", Current: status}
		}

		slot := &b.Condition.BeforeRental
		if in.Phase == domain.ConditionPhaseAfter {
			slot = &b.Condition.AfterRental
		}
		snap := &domain.ConditionSnapshot{
			FuelLevel:         in.FuelLevel,
			ExteriorCondition: in.ExteriorCondition,
			InteriorCondition: in.InteriorCondition,
			Notes:             in.Notes,
			Odometer:          in.Odometer,
			Photos:            []domain.Photo{},
			RecordedBy:        actor.UserID,
			RecordedAt:        now,
		}
		if *slot != nil {
			snap.Photos = append(snap.Photos, (*slot).Photos...)
		}
		if in.PhotoURL != "" {
			snap.Photos = append(snap.Photos, domain.Photo{URL: in.PhotoURL, CapturedAt: now})
		}
		*slot = snap
		b.UpdatedOn = now
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.UploadCondition", err, "bookingID", in.BookingID)
		return nil, err
	}
	logger.ExitMethod("bookingService.UploadCondition", "bookingID", in.BookingID, "phase", in.Phase)
	return b, nil
}

func validateConditionUpload(in domain.ConditionUpload) error {
	if in.BookingID == "" {
		return domain.NewValidationError("bookingId is required")
	}
	if _, ok := conditionPhaseStates[in.Phase]; !ok {
		return domain.NewValidationError("phase must be before or after")
	}
	if _, ok := in.FuelLevel.Rank(); !ok {
		return domain.NewValidationError("fuelLevel is required")
	}
	if _, ok := in.ExteriorCondition.Rank(); !ok {
		return domain.NewValidationError("exteriorCondition is required")
	}
	if _, ok := in.InteriorCondition.Rank(); !ok {
		return domain.NewValidationError("interiorCondition is required")
	}
	if in.Odometer < 0 {
		return domain.NewValidationError("odometer cannot be negative")
	}
	return nil
}

// AssessPenalties returns the stored report of a completed booking, or a
// preview computed from the snapshots recorded so far.
func (s *bookingService) AssessPenalties(ctx context.Context, actor domain.Actor, bookingID string) (*domain.PenaltyReport, error) {
	b, err := s.GetBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status() == domain.BookingStatusCompleted && b.Penalties != nil {
		return b.Penalties.Clone(), nil
	}
	report := s.assess(b, s.now())
	return &report, nil
}

// assess builds the engine metadata. The actual return is when the booking
// entered returned, or now while the vehicle is still out.
func (s *bookingService) assess(b *domain.Booking, now time.Time) domain.PenaltyReport {
	meta := assessment.Metadata{TotalDays: b.TotalDays}
	if scheduled, err := s.scheduledReturn(b); err == nil {
		meta.ScheduledReturn = scheduled
	}
	if at, ok := b.StatusHistory.EnteredAt(domain.BookingStatusReturned); ok {
		meta.ActualReturn = at
	} else if b.Status() == domain.BookingStatusReleased {
		meta.ActualReturn = now
	}
	if b.Condition.AfterRental != nil {
		meta.AfterNotes = b.Condition.AfterRental.Notes
	}
	return s.engine.Assess(b.Condition.BeforeRental, b.Condition.AfterRental, meta)
}

func statusIn(status domain.BookingStatus, allowed []domain.BookingStatus) bool {
	for _, a := range allowed {
		if status == a {
			return true
		}
	}
	return false
}
