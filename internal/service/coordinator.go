package service

import (
	"context"
	"sync"
	"time"

	"biliran-rental-backend/internal/domain"
)

// Coordinator serializes every state-changing command across services so
// each read-modify-write happens as one step.
type Coordinator struct {
	mu sync.Mutex
}

func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Do runs fn while holding the coordinator lock.
func (c *Coordinator) Do(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn()
}

type nowFunc = func() time.Time

func systemNow() time.Time { return time.Now() }

// outbox collects notifications raised inside a command so they are sent
// after the lock is released.
type outbox []*domain.Notification

func (o *outbox) add(recipientID string, typ domain.NotificationType, bookingID, title, message string) {
	if recipientID == "" {
		return
	}
	*o = append(*o, &domain.Notification{
		Type:            typ,
		RecipientUserID: recipientID,
		Title:           title,
		Message:         message,
		BookingID:       bookingID,
	})
}

func (o outbox) flush(ctx context.Context, notifier Notifier) {
	if notifier == nil {
		return
	}
	for _, n := range o {
		notifier.Notify(ctx, n)
	}
}
