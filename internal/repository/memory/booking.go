package memory

import (
	"context"
	"fmt"
	"sync"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/repository"
)

type bookingRepository struct {
	mu    sync.RWMutex
	seq   int64
	byID  map[string]*domain.Booking
	order []string
}

func NewBookingRepository() repository.BookingRepository {
	return &bookingRepository{byID: make(map[string]*domain.Booking)}
}

func (r *bookingRepository) NextSequence(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		return fmt.Errorf("booking id is required")
	}
	if _, exists := r.byID[b.ID]; exists {
		return fmt.Errorf("booking %q already exists", b.ID)
	}
	r.byID[b.ID] = b.Clone()
	r.order = append(r.order, b.ID)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "booking", ID: id}
	}
	return b.Clone(), nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID]; !ok {
		return &domain.NotFoundError{Kind: "booking", ID: b.ID}
	}
	r.byID[b.ID] = b.Clone()
	return nil
}

func (r *bookingRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool { return b.VehicleID == vehicleID }), nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool { return b.CustomerID == customerID }), nil
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool { return b.OwnerID == ownerID }), nil
}

func (r *bookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool { return b.Status() == status }), nil
}

func (r *bookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.filter(func(*domain.Booking) bool { return true }), nil
}

func (r *bookingRepository) filter(keep func(*domain.Booking) bool) []domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bookings := []domain.Booking{}
	for _, id := range r.order {
		if b := r.byID[id]; keep(b) {
			bookings = append(bookings, *b.Clone())
		}
	}
	return bookings
}
