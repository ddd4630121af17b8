package memory

import (
	"context"
	"fmt"
	"sync"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/repository"
)

type userRepository struct {
	mu   sync.RWMutex
	byID map[string]domain.User
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{byID: make(map[string]domain.User)}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return fmt.Errorf("user %q already exists", u.ID)
	}
	r.byID[u.ID] = *u
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "user", ID: id}
	}
	return &u, nil
}
