package service

import (
	"context"
	"time"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/repository"
	"biliran-rental-backend/internal/utils"
)

// MaxAlternatives caps the vehicles suggested alongside a conflict.
const MaxAlternatives = 3

// availabilityService only reads. It is safe to call from inside a
// coordinator command.
type availabilityService struct {
	bookingRepo repository.BookingRepository
	vehicleRepo repository.VehicleRepository
}

func NewAvailabilityService(bookingRepo repository.BookingRepository, vehicleRepo repository.VehicleRepository) AvailabilityService {
	return &availabilityService{
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
	}
}

func (s *availabilityService) CheckConflict(ctx context.Context, vehicleID, pickupDate, returnDate string) ([]domain.Booking, error) {
	start, end, err := parseRange(pickupDate, returnDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	return s.conflicts(ctx, vehicleID, start, end)
}

func (s *availabilityService) GetAvailableVehicles(ctx context.Context, pickupDate, returnDate string) ([]domain.Vehicle, error) {
	return s.available(ctx, pickupDate, returnDate, "", 0)
}

// Alternatives returns up to limit bookable, conflict-free vehicles other
// than excludeVehicleID, in registration order.
func (s *availabilityService) Alternatives(ctx context.Context, pickupDate, returnDate, excludeVehicleID string, limit int) ([]domain.Vehicle, error) {
	return s.available(ctx, pickupDate, returnDate, excludeVehicleID, limit)
}

func (s *availabilityService) available(ctx context.Context, pickupDate, returnDate, exclude string, limit int) ([]domain.Vehicle, error) {
	start, end, err := parseRange(pickupDate, returnDate)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := []domain.Vehicle{}
	for _, v := range vehicles {
		if v.ID == exclude || !v.IsBookable() {
			continue
		}
		conflicts, err := s.conflicts(ctx, v.ID, start, end)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			continue
		}
		result = append(result, v)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (s *availabilityService) conflicts(ctx context.Context, vehicleID string, start, end time.Time) ([]domain.Booking, error) {
	bookings, err := s.bookingRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	result := []domain.Booking{}
	for _, b := range bookings {
		if !b.Status().BlocksVehicle() {
			continue
		}
		bStart, errStart := utils.ParseDate(b.PickupDate)
		bEnd, errEnd := utils.ParseDate(b.ReturnDate)
		if errStart != nil || errEnd != nil {
			continue
		}
		if utils.Overlaps(start, end, bStart, bEnd) {
			result = append(result, b)
		}
	}
	return result, nil
}

// NextAvailableDate is the latest return date among the conflicts.
func NextAvailableDate(conflicts []domain.Booking) string {
	var latest string
	for _, b := range conflicts {
		// yyyy-mm-dd compares lexically
		if b.ReturnDate > latest {
			latest = b.ReturnDate
		}
	}
	return latest
}

func parseRange(pickupDate, returnDate string) (time.Time, time.Time, error) {
	start, err := utils.ParseDate(pickupDate)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("invalid pickup date: %v", err)
	}
	end, err := utils.ParseDate(returnDate)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("invalid return date: %v", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, domain.NewValidationError("invalid date range")
	}
	return start, end, nil
}
