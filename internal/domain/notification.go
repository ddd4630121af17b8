package domain

import "time"

type NotificationType string

const (
	NotificationBookingRequest        NotificationType = "booking_request"
	NotificationBookingApproved       NotificationType = "booking_approved"
	NotificationBookingRejected       NotificationType = "booking_rejected"
	NotificationBookingReleased       NotificationType = "booking_released"
	NotificationBookingReturned       NotificationType = "booking_returned"
	NotificationBookingCompleted      NotificationType = "booking_completed"
	NotificationBookingCancelled      NotificationType = "booking_cancelled"
	NotificationCancellationRequested NotificationType = "cancellation_requested"
	NotificationNewMessage            NotificationType = "new_message"
	NotificationPaymentUpdated        NotificationType = "payment_updated"
	NotificationOverdueReminder       NotificationType = "overdue_reminder"
	NotificationPickupReminder        NotificationType = "pickup_reminder"
)

type Notification struct {
	ID              string           `json:"id"`
	Type            NotificationType `json:"type"`
	RecipientUserID string           `json:"recipientUserId"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	BookingID       string           `json:"bookingId"`
	IsRead          bool             `json:"isRead"`
	CreatedAt       time.Time        `json:"createdAt"`
}
