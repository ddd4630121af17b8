package domain

import "time"

type MessageKind string

const (
	MessageKindChat                MessageKind = "message"
	MessageKindCancellationRequest MessageKind = "cancellation_request"
)

// Message is one entry in a booking's conversation. The core only appends
// and reads them; content is not interpreted.
type Message struct {
	ID        string      `json:"id"`
	BookingID string      `json:"bookingId"`
	SenderID  string      `json:"senderId"`
	Kind      MessageKind `json:"kind"`
	Body      string      `json:"body"`
	CreatedOn time.Time   `json:"createdOn"`
}
