package memory

import (
	"context"
	"fmt"
	"sync"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/repository"
)

type vehicleRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Vehicle
	order []string
}

func NewVehicleRepository() repository.VehicleRepository {
	return &vehicleRepository{byID: make(map[string]*domain.Vehicle)}
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == "" {
		return fmt.Errorf("vehicle id is required")
	}
	if _, exists := r.byID[v.ID]; exists {
		return fmt.Errorf("vehicle %q already exists", v.ID)
	}
	c := *v
	r.byID[v.ID] = &c
	r.order = append(r.order, v.ID)
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.byID[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "vehicle", ID: id}
	}
	c := *v
	return &c, nil
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[v.ID]; !ok {
		return &domain.NotFoundError{Kind: "vehicle", ID: v.ID}
	}
	c := *v
	r.byID[v.ID] = &c
	return nil
}

func (r *vehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	return r.filter(func(*domain.Vehicle) bool { return true }), nil
}

func (r *vehicleRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	return r.filter(func(v *domain.Vehicle) bool { return v.OwnerID == ownerID }), nil
}

func (r *vehicleRepository) filter(keep func(*domain.Vehicle) bool) []domain.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vehicles := []domain.Vehicle{}
	for _, id := range r.order {
		if v := r.byID[id]; keep(v) {
			vehicles = append(vehicles, *v)
		}
	}
	return vehicles
}
