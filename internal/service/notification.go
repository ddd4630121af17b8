package service

import (
	"context"
	"fmt"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/logger"
	"biliran-rental-backend/internal/repository"

	"github.com/google/uuid"
)

const defaultPageSize int32 = 20

type notificationService struct {
	noteRepo repository.NotificationRepository
	userRepo repository.UserRepository
	emailSvc EmailService
	now      nowFunc
}

// NewNotificationService stores every event in the inbox and, when emailSvc
// is non-nil, mails it to the recipient.
func NewNotificationService(noteRepo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc EmailService) NotificationService {
	return &notificationService{
		noteRepo: noteRepo,
		userRepo: userRepo,
		emailSvc: emailSvc,
		now:      systemNow,
	}
}

func (s *notificationService) Notify(ctx context.Context, n *domain.Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	if err := s.noteRepo.Create(ctx, n); err != nil {
		logger.Error("Failed to store notification", "type", n.Type, "recipient", n.RecipientUserID, "error", err)
	}

	if s.emailSvc == nil || s.userRepo == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, n.RecipientUserID)
	if err != nil || user.Email == "" {
		logger.Debug("Skipping notification email", "recipient", n.RecipientUserID, "error", err)
		return
	}
	body := fmt.Sprintf("Hello %s,\n\n%s\n\nBest regards,\nBiliran Car Rental", user.Name, n.Message)
	if err := s.emailSvc.SendNotification(ctx, user.Email, user.Name, n.Title, body); err != nil {
		logger.Warn("Failed to send notification email", "type", n.Type, "recipient", n.RecipientUserID, "error", err)
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}
