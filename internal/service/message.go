package service

import (
	"context"
	"fmt"
	"strings"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/logger"
	"biliran-rental-backend/internal/repository"

	"github.com/google/uuid"
)

type messageService struct {
	coord       *Coordinator
	bookingRepo repository.BookingRepository
	notifier    Notifier
	now         nowFunc
}

func NewMessageService(coord *Coordinator, bookingRepo repository.BookingRepository, notifier Notifier) MessageService {
	return &messageService{
		coord:       coord,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		now:         systemNow,
	}
}

func (s *messageService) PostMessage(ctx context.Context, actor domain.Actor, bookingID, body string) (*domain.Message, error) {
	logger.EnterMethod("messageService.PostMessage", "bookingID", bookingID, "senderID", actor.UserID)
	msg, err := s.append(ctx, actor, bookingID, domain.MessageKindChat, body, nil)
	if err != nil {
		logger.ExitMethodWithError("messageService.PostMessage", err, "bookingID", bookingID)
		return nil, err
	}
	logger.ExitMethod("messageService.PostMessage", "bookingID", bookingID, "messageID", msg.ID)
	return msg, nil
}

func (s *messageService) ListMessages(ctx context.Context, actor domain.Actor, bookingID string) ([]domain.Message, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := requireParty(actor, b); err != nil {
		return nil, err
	}
	if b.Messages == nil {
		return []domain.Message{}, nil
	}
	return b.Messages, nil
}

// RequestCancellation asks the other party to cancel through the booking
// conversation. The booking status does not change.
func (s *messageService) RequestCancellation(ctx context.Context, actor domain.Actor, bookingID, reason string) (*domain.Message, error) {
	logger.EnterMethod("messageService.RequestCancellation", "bookingID", bookingID, "requestedBy", actor.UserID)
	msg, err := s.append(ctx, actor, bookingID, domain.MessageKindCancellationRequest, reason, func(b *domain.Booking) error {
		status := b.Status()
		if !status.CanTransitionTo(domain.BookingStatusCancelled) {
			return &domain.InvalidTransitionError{Operation: "request cancellation of", Current: status}
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("messageService.RequestCancellation", err, "bookingID", bookingID)
		return nil, err
	}
	logger.ExitMethod("messageService.RequestCancellation", "bookingID", bookingID, "messageID", msg.ID)
	return msg, nil
}

func (s *messageService) append(ctx context.Context, actor domain.Actor, bookingID string, kind domain.MessageKind, body string, check func(*domain.Booking) error) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		if kind == domain.MessageKindCancellationRequest {
			return nil, domain.NewValidationError("cancellation reason is required")
		}
		return nil, domain.NewValidationError("message body is required")
	}

	var (
		out outbox
		msg domain.Message
	)
	err := s.coord.Do(func() error {
		b, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := requireParty(actor, b); err != nil {
			return err
		}
		if check != nil {
			if err := check(b); err != nil {
				return err
			}
		}

		now := s.now()
		msg = domain.Message{
			ID:        uuid.NewString(),
			BookingID: b.ID,
			SenderID:  actor.UserID,
			Kind:      kind,
			Body:      body,
			CreatedOn: now,
		}
		b.Messages = append(b.Messages, msg)
		b.UpdatedOn = now
		if err := s.bookingRepo.Update(ctx, b); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		typ, title := domain.NotificationNewMessage, "New Message"
		text := fmt.Sprintf("New message on booking %s", b.ReferenceCode)
		if kind == domain.MessageKindCancellationRequest {
			typ, title = domain.NotificationCancellationRequested, "Cancellation Requested"
			text = fmt.Sprintf("Cancellation requested for booking %s: %s", b.ReferenceCode, body)
		}
		for _, recipient := range notifyOthers(actor, b) {
			out.add(recipient, typ, b.ID, title, text)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.flush(ctx, s.notifier)
	return &msg, nil
}
