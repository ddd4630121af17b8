package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"biliran-rental-backend/internal/assessment"
	"biliran-rental-backend/internal/catalog"
	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/logger"
	"biliran-rental-backend/internal/repository"
	"biliran-rental-backend/internal/utils"

	"github.com/google/uuid"
)

// BookingOptions tunes the booking service. Zero values fall back to UTC
// and time.Now.
type BookingOptions struct {
	Location *time.Location
	Now      func() time.Time
}

type bookingService struct {
	coord        *Coordinator
	bookingRepo  repository.BookingRepository
	vehicleRepo  repository.VehicleRepository
	availability AvailabilityService
	catalog      *catalog.Catalog
	engine       *assessment.Engine
	notifier     Notifier
	loc          *time.Location
	now          func() time.Time
}

func NewBookingService(
	coord *Coordinator,
	bookingRepo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	availability AvailabilityService,
	cat *catalog.Catalog,
	engine *assessment.Engine,
	notifier Notifier,
	opts BookingOptions,
) BookingService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if engine == nil {
		engine = assessment.NewEngine(nil)
	}
	return &bookingService{
		coord:        coord,
		bookingRepo:  bookingRepo,
		vehicleRepo:  vehicleRepo,
		availability: availability,
		catalog:      cat,
		engine:       engine,
		notifier:     notifier,
		loc:          opts.Location,
		now:          opts.Now,
	}
}

// bookingCommand mutates a working copy of a booking. Returning an error
// discards the copy, so stored state is unchanged.
type bookingCommand func(b *domain.Booking, now time.Time, out *outbox) error

func (s *bookingService) mutate(ctx context.Context, bookingID string, cmd bookingCommand) (*domain.Booking, error) {
	var (
		out    outbox
		result *domain.Booking
	)
	err := s.coord.Do(func() error {
		b, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := cmd(b, s.now(), &out); err != nil {
			return err
		}
		if err := s.bookingRepo.Update(ctx, b); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.flush(ctx, s.notifier)
	return result, nil
}

// transition moves a booking one step along the lifecycle after the actor
// and source state have been checked. apply may set extra fields.
func (s *bookingService) transition(
	ctx context.Context,
	method, operation string,
	actor domain.Actor,
	bookingID string,
	target domain.BookingStatus,
	authorize func(domain.Actor, *domain.Booking) error,
	apply bookingCommand,
) (*domain.Booking, error) {
	logger.EnterMethod(method, "bookingID", bookingID, "actorID", actor.UserID)
	b, err := s.mutate(ctx, bookingID, func(b *domain.Booking, now time.Time, out *outbox) error {
		if err := authorize(actor, b); err != nil {
			return err
		}
		current := b.Status()
		if !current.CanTransitionTo(target) {
			return &domain.InvalidTransitionError{Operation: operation, Current: current}
		}
		if apply != nil {
			if err := apply(b, now, out); err != nil {
				return err
			}
		}
		b.AppendStatus(string(target), now)
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError(method, err, "bookingID", bookingID)
		return nil, err
	}
	logger.ExitMethod(method, "bookingID", bookingID, "status", b.Status())
	return b, nil
}

func (s *bookingService) Create(ctx context.Context, actor domain.Actor, req domain.BookingRequest) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.Create", "customerID", actor.UserID, "vehicleID", req.VehicleID,
		"pickupDate", req.PickupDate, "returnDate", req.ReturnDate)

	if err := validateBookingRequest(actor, req); err != nil {
		logger.ExitMethodWithError("bookingService.Create", err, "vehicleID", req.VehicleID)
		return nil, err
	}
	totalDays, err := utils.TotalDays(req.PickupDate, req.ReturnDate)
	if err != nil {
		err = domain.NewValidationError("%v", err)
		logger.ExitMethodWithError("bookingService.Create", err, "vehicleID", req.VehicleID)
		return nil, err
	}
	if totalDays <= 0 {
		err = domain.NewValidationError("invalid date range")
		logger.ExitMethodWithError("bookingService.Create", err, "vehicleID", req.VehicleID)
		return nil, err
	}

	var (
		out     outbox
		booking *domain.Booking
	)
	err = s.coord.Do(func() error {
		vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
		if err != nil {
			return err
		}
		if !vehicle.IsBookable() {
			return domain.NewValidationError("vehicle %s is not available for booking", vehicle.ID)
		}
		if vehicle.OwnerID == actor.UserID {
			return domain.NewValidationError("owners cannot book their own vehicle")
		}

		conflicts, err := s.availability.CheckConflict(ctx, vehicle.ID, req.PickupDate, req.ReturnDate)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return s.conflictError(ctx, req, conflicts)
		}

		seq, err := s.bookingRepo.NextSequence(ctx)
		if err != nil {
			return fmt.Errorf("failed to allocate booking reference: %w", err)
		}
		now := s.now()
		b := &domain.Booking{
			ID:             uuid.NewString(),
			ReferenceCode:  fmt.Sprintf("BK-%06d", seq),
			VehicleID:      vehicle.ID,
			CustomerID:     actor.UserID,
			OwnerID:        vehicle.OwnerID,
			PickupDate:     req.PickupDate,
			ReturnDate:     req.ReturnDate,
			PickupTime:     req.PickupTime,
			ReturnTime:     req.ReturnTime,
			PickupLocation: req.PickupLocation,
			ReturnLocation: req.ReturnLocation,
			TotalDays:      totalDays,
			DailyRate:      vehicle.DailyRate,
			Addons:         s.knownAddons(req.Addons),
			PromoCode:      s.knownPromo(req.PromoCode),
			Notes:          req.Notes,
			Payment: domain.PaymentLedger{
				Status:          domain.PaymentStatusPending,
				Method:          req.PaymentMethod,
				SecurityDeposit: req.SecurityDeposit,
			},
			Messages:  []domain.Message{},
			CreatedOn: now,
		}
		s.recalculate(b)
		b.AppendStatus(string(domain.BookingStatusPending), now)
		b.AppendStatus(domain.HistoryMarkerPaymentPending, now)

		if err := s.bookingRepo.Create(ctx, b); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		out.add(b.OwnerID, domain.NotificationBookingRequest, b.ID, "New Booking Request",
			fmt.Sprintf("Booking %s requested for %s from %s to %s", b.ReferenceCode, vehicle.Name, b.PickupDate, b.ReturnDate))
		booking = b
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.Create", err, "vehicleID", req.VehicleID)
		return nil, err
	}
	out.flush(ctx, s.notifier)

	logger.ExitMethod("bookingService.Create", "bookingID", booking.ID, "reference", booking.ReferenceCode,
		"total", booking.Payment.Total)
	return booking, nil
}

func validateBookingRequest(actor domain.Actor, req domain.BookingRequest) error {
	if actor.UserID == "" {
		return domain.NewValidationError("customer is required")
	}
	if req.VehicleID == "" {
		return domain.NewValidationError("vehicleId is required")
	}
	if _, err := utils.ParseClock(req.PickupTime); err != nil {
		return domain.NewValidationError("invalid pickup time: %v", err)
	}
	if _, err := utils.ParseClock(req.ReturnTime); err != nil {
		return domain.NewValidationError("invalid return time: %v", err)
	}
	if req.SecurityDeposit < 0 {
		return domain.NewValidationError("security deposit cannot be negative")
	}
	return nil
}

func (s *bookingService) conflictError(ctx context.Context, req domain.BookingRequest, conflicts []domain.Booking) error {
	alternatives, err := s.availability.Alternatives(ctx, req.PickupDate, req.ReturnDate, req.VehicleID, MaxAlternatives)
	if err != nil {
		return err
	}
	return &domain.ConflictError{
		Message:             "vehicle is already booked for the selected dates",
		ConflictingBookings: conflicts,
		AlternativeVehicles: alternatives,
		NextAvailableDate:   NextAvailableDate(conflicts),
	}
}

func (s *bookingService) Approve(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error) {
	return s.transition(ctx, "bookingService.Approve", "approve", actor, bookingID, domain.BookingStatusApproved, requireOwner,
		func(b *domain.Booking, _ time.Time, out *outbox) error {
			out.add(b.CustomerID, domain.NotificationBookingApproved, b.ID, "Booking Approved",
				fmt.Sprintf("Your booking %s has been approved", b.ReferenceCode))
			return nil
		})
}

func (s *bookingService) Reject(ctx context.Context, actor domain.Actor, bookingID, reason string) (*domain.Booking, error) {
	return s.transition(ctx, "bookingService.Reject", "reject", actor, bookingID, domain.BookingStatusRejected, requireOwner,
		func(b *domain.Booking, _ time.Time, out *outbox) error {
			b.RejectionReason = strings.TrimSpace(reason)
			msg := fmt.Sprintf("Your booking %s has been rejected", b.ReferenceCode)
			if b.RejectionReason != "" {
				msg += ": " + b.RejectionReason
			}
			out.add(b.CustomerID, domain.NotificationBookingRejected, b.ID, "Booking Rejected", msg)
			return nil
		})
}

func (s *bookingService) Release(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error) {
	return s.transition(ctx, "bookingService.Release", "release", actor, bookingID, domain.BookingStatusReleased, requireOwner,
		func(b *domain.Booking, _ time.Time, out *outbox) error {
			out.add(b.CustomerID, domain.NotificationBookingReleased, b.ID, "Vehicle Released",
				fmt.Sprintf("The vehicle for booking %s has been released to you", b.ReferenceCode))
			return nil
		})
}

func (s *bookingService) Return(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error) {
	return s.transition(ctx, "bookingService.Return", "return", actor, bookingID, domain.BookingStatusReturned, requireOwner,
		func(b *domain.Booking, _ time.Time, out *outbox) error {
			out.add(b.CustomerID, domain.NotificationBookingReturned, b.ID, "Vehicle Returned",
				fmt.Sprintf("The vehicle for booking %s has been checked in", b.ReferenceCode))
			return nil
		})
}

// Complete assesses penalties against the recorded snapshots and closes the
// ledger. An assessed late-return charge replaces the accrued late fee;
// posted late fees stay.
func (s *bookingService) Complete(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error) {
	return s.transition(ctx, "bookingService.Complete", "complete", actor, bookingID, domain.BookingStatusCompleted, requireOwner,
		func(b *domain.Booking, now time.Time, out *outbox) error {
			report := s.assess(b, now)
			b.Penalties = &report
			b.Payment.Penalties = report.Total
			if report.Has(domain.PenaltyLateReturn) {
				b.Payment.AccruedLateFees = 0
			}
			s.recalculate(b)
			out.add(b.CustomerID, domain.NotificationBookingCompleted, b.ID, "Booking Completed",
				fmt.Sprintf("Booking %s is complete. Final total: %d, penalties: %d", b.ReferenceCode, b.Payment.Total, report.Total))
			return nil
		})
}

func (s *bookingService) Cancel(ctx context.Context, actor domain.Actor, bookingID, reason string) (*domain.Booking, error) {
	return s.transition(ctx, "bookingService.Cancel", "cancel", actor, bookingID, domain.BookingStatusCancelled, requireParty,
		func(b *domain.Booking, _ time.Time, out *outbox) error {
			b.CancellationReason = strings.TrimSpace(reason)
			b.CancelledBy = actor.UserID
			msg := fmt.Sprintf("Booking %s has been cancelled", b.ReferenceCode)
			if b.CancellationReason != "" {
				msg += ": " + b.CancellationReason
			}
			for _, recipient := range notifyOthers(actor, b) {
				out.add(recipient, domain.NotificationBookingCancelled, b.ID, "Booking Cancelled", msg)
			}
			return nil
		})
}

func (s *bookingService) GetBooking(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := requireParty(actor, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookings returns every booking for admins, otherwise the bookings the
// actor rents or owns, oldest first.
func (s *bookingService) ListBookings(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	logger.EnterMethod("bookingService.ListBookings", "actorID", actor.UserID)
	if actor.IsAdmin() {
		bookings, err := s.bookingRepo.List(ctx)
		if err != nil {
			logger.ExitMethodWithError("bookingService.ListBookings", err, "actorID", actor.UserID)
			return nil, err
		}
		logger.ExitMethod("bookingService.ListBookings", "count", len(bookings))
		return bookings, nil
	}
	if actor.UserID == "" {
		return nil, domain.ErrForbidden
	}

	rented, err := s.bookingRepo.ListByCustomer(ctx, actor.UserID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.ListBookings", err, "actorID", actor.UserID)
		return nil, err
	}
	owned, err := s.bookingRepo.ListByOwner(ctx, actor.UserID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.ListBookings", err, "actorID", actor.UserID)
		return nil, err
	}

	seen := make(map[string]bool, len(rented)+len(owned))
	result := make([]domain.Booking, 0, len(rented)+len(owned))
	for _, b := range append(rented, owned...) {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		result = append(result, b)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedOn.Before(result[j].CreatedOn)
	})

	logger.ExitMethod("bookingService.ListBookings", "actorID", actor.UserID, "count", len(result))
	return result, nil
}

// recalculate keeps the ledger arithmetic consistent with the booking.
// Assessed penalties are charged alongside late fees.
func (s *bookingService) recalculate(b *domain.Booking) {
	l := &b.Payment
	l.BaseRental = utils.BaseRental(b.DailyRate, b.TotalDays)
	l.AddonsTotal = utils.AddonsTotal(s.catalog, b.Addons)
	l.DiscountAmount = utils.ApplyDiscount(s.catalog, l.BaseRental+l.AddonsTotal, b.PromoCode)
	l.LateFees = l.PostedLateFees + l.AccruedLateFees
	l.Total = utils.ComputeTotal(l.BaseRental, l.AddonsTotal, l.SecurityDeposit, l.DiscountAmount, l.LateFees+l.Penalties)
}

// knownAddons drops flags the catalog does not price.
func (s *bookingService) knownAddons(requested map[string]bool) map[string]bool {
	addons := make(map[string]bool, len(requested))
	for name, on := range requested {
		if _, ok := s.catalog.AddonPrice(name); ok {
			addons[name] = on
		}
	}
	return addons
}

// knownPromo normalizes a recognized code and silently drops anything else.
func (s *bookingService) knownPromo(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := s.catalog.PromoPercent(code); !ok {
		return ""
	}
	return code
}

func (s *bookingService) scheduledReturn(b *domain.Booking) (time.Time, error) {
	return utils.CombineDateTime(b.ReturnDate, b.ReturnTime, s.loc)
}

func requireOwner(actor domain.Actor, b *domain.Booking) error {
	if actor.IsAdmin() || (actor.UserID != "" && actor.UserID == b.OwnerID) {
		return nil
	}
	return domain.ErrForbidden
}

func requireParty(actor domain.Actor, b *domain.Booking) error {
	if actor.IsAdmin() || b.IsParty(actor.UserID) {
		return nil
	}
	return domain.ErrForbidden
}

// notifyOthers lists the booking parties other than the actor.
func notifyOthers(actor domain.Actor, b *domain.Booking) []string {
	if b.IsParty(actor.UserID) {
		return []string{b.Counterparty(actor.UserID)}
	}
	return []string{b.CustomerID, b.OwnerID}
}
