package memory

import (
	"context"
	"sync"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/repository"
)

type notificationRepository struct {
	mu    sync.RWMutex
	notes []domain.Notification
}

func NewNotificationRepository() repository.NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, *n)
	return nil
}

// List returns the user's notifications newest first.
func (r *notificationRepository) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var mine []domain.Notification
	for i := len(r.notes) - 1; i >= 0; i-- {
		if r.notes[i].RecipientUserID == userID {
			mine = append(mine, r.notes[i])
		}
	}
	count := int32(len(mine))
	if offset < 0 {
		offset = 0
	}
	if offset >= count {
		return []domain.Notification{}, count, nil
	}
	end := count
	if limit > 0 && offset+limit < count {
		end = offset + limit
	}
	return mine[offset:end], count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notes {
		if r.notes[i].ID == id && r.notes[i].RecipientUserID == userID {
			r.notes[i].IsRead = true
			return nil
		}
	}
	return &domain.NotFoundError{Kind: "notification", ID: id}
}
