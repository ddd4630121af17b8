package service

import (
	"context"
	"time"

	"biliran-rental-backend/internal/domain"
)

type AvailabilityService interface {
	CheckConflict(ctx context.Context, vehicleID, pickupDate, returnDate string) ([]domain.Booking, error)
	GetAvailableVehicles(ctx context.Context, pickupDate, returnDate string) ([]domain.Vehicle, error)
	Alternatives(ctx context.Context, pickupDate, returnDate, excludeVehicleID string, limit int) ([]domain.Vehicle, error)
}

type VehicleService interface {
	RegisterVehicle(ctx context.Context, actor domain.Actor, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	SetAvailability(ctx context.Context, actor domain.Actor, vehicleID string, available bool) (*domain.Vehicle, error)
	SetApproval(ctx context.Context, actor domain.Actor, vehicleID string, approval domain.VehicleApproval) (*domain.Vehicle, error)
	GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
}

type BookingService interface {
	// Lifecycle
	Create(ctx context.Context, actor domain.Actor, req domain.BookingRequest) (*domain.Booking, error)
	Approve(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error)
	Reject(ctx context.Context, actor domain.Actor, bookingID, reason string) (*domain.Booking, error)
	Release(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error)
	Return(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error)
	Complete(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error)
	Cancel(ctx context.Context, actor domain.Actor, bookingID, reason string) (*domain.Booking, error)

	GetBooking(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error)
	ListBookings(ctx context.Context, actor domain.Actor) ([]domain.Booking, error)

	// Ledger
	ToggleAddon(ctx context.Context, actor domain.Actor, bookingID, addon string, enabled bool) (*domain.Booking, error)
	ApplyPromo(ctx context.Context, actor domain.Actor, bookingID, code string) (*domain.Booking, error)
	PostLateFee(ctx context.Context, actor domain.Actor, bookingID string, amount int64) (*domain.Booking, error)
	AccrueLateFee(ctx context.Context, bookingID string, now time.Time) (*domain.Booking, error)
	RecordPayment(ctx context.Context, actor domain.Actor, bookingID string, status domain.PaymentStatus, paid int64) (*domain.Booking, error)

	// Condition & penalties
	UploadCondition(ctx context.Context, actor domain.Actor, in domain.ConditionUpload) (*domain.Booking, error)
	AssessPenalties(ctx context.Context, actor domain.Actor, bookingID string) (*domain.PenaltyReport, error)
}

type MessageService interface {
	PostMessage(ctx context.Context, actor domain.Actor, bookingID, body string) (*domain.Message, error)
	ListMessages(ctx context.Context, actor domain.Actor, bookingID string) ([]domain.Message, error)
	RequestCancellation(ctx context.Context, actor domain.Actor, bookingID, reason string) (*domain.Message, error)
}

// Notifier receives fire-and-forget booking events. Delivery failures are
// logged, never returned.
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification)
}

type NotificationService interface {
	Notifier
	GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
}

type EmailService interface {
	SendNotification(ctx context.Context, toEmail, toName, subject, body string) error
}
