package domain

import (
	"encoding/json"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusReleased  BookingStatus = "released"
	BookingStatusReturned  BookingStatus = "returned"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// HistoryMarkerPaymentPending is an informational history entry. It is not a
// lifecycle status and never becomes the booking's current status.
const HistoryMarkerPaymentPending = "payment_pending"

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusApproved, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusApproved:  {BookingStatusReleased, BookingStatusCancelled},
	BookingStatusReleased:  {BookingStatusReturned},
	BookingStatusReturned:  {BookingStatusCompleted},
	BookingStatusRejected:  {},
	BookingStatusCancelled: {},
	BookingStatusCompleted: {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// BlocksVehicle reports whether a booking in this status occupies its
// vehicle for availability purposes.
func (s BookingStatus) BlocksVehicle() bool {
	return s != BookingStatusCancelled && s != BookingStatusRejected
}

type StatusEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusHistory is append-only. Entries are never removed or reordered.
type StatusHistory []StatusEntry

// Current is the status of the most recent lifecycle entry, skipping
// informational markers.
func (h StatusHistory) Current() BookingStatus {
	for i := len(h) - 1; i >= 0; i-- {
		if s := BookingStatus(h[i].Status); s.IsValid() {
			return s
		}
	}
	return ""
}

// EnteredAt returns when the booking last entered the given status.
func (h StatusHistory) EnteredAt(status BookingStatus) (time.Time, bool) {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].Status == string(status) {
			return h[i].Timestamp, true
		}
	}
	return time.Time{}, false
}

type Booking struct {
	ID                 string          `json:"id"`
	ReferenceCode      string          `json:"referenceCode"`
	VehicleID          string          `json:"vehicleId"`
	CustomerID         string          `json:"customerId"`
	OwnerID            string          `json:"ownerId"`
	PickupDate         string          `json:"pickupDate"`
	ReturnDate         string          `json:"returnDate"`
	PickupTime         string          `json:"pickupTime"`
	ReturnTime         string          `json:"returnTime"`
	PickupLocation     string          `json:"pickupLocation"`
	ReturnLocation     string          `json:"returnLocation"`
	TotalDays          int             `json:"totalDays"`
	DailyRate          int64           `json:"dailyRate"` // snapshot taken at creation
	Addons             map[string]bool `json:"addons"`
	PromoCode          string          `json:"promoCode,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	RejectionReason    string          `json:"rejectionReason,omitempty"`
	CancellationReason string          `json:"cancellationReason,omitempty"`
	CancelledBy        string          `json:"cancelledBy,omitempty"`
	StatusHistory      StatusHistory   `json:"statusHistory"`
	Payment            PaymentLedger   `json:"payment"`
	Condition          ConditionRecord `json:"condition"`
	Penalties          *PenaltyReport  `json:"penalties,omitempty"`
	Messages           []Message       `json:"messages"`
	CreatedOn          time.Time       `json:"createdOn"`
	UpdatedOn          time.Time       `json:"updatedOn"`
}

func (b *Booking) Status() BookingStatus {
	return b.StatusHistory.Current()
}

// AppendStatus records a history entry. Callers check transitions first.
func (b *Booking) AppendStatus(status string, at time.Time) {
	b.StatusHistory = append(b.StatusHistory, StatusEntry{Status: status, Timestamp: at})
	b.UpdatedOn = at
}

// IsParty reports whether the user is the customer or the owner.
func (b *Booking) IsParty(userID string) bool {
	return userID != "" && (b.CustomerID == userID || b.OwnerID == userID)
}

// Counterparty returns the other side of the booking for the given user.
func (b *Booking) Counterparty(userID string) string {
	if userID == b.CustomerID {
		return b.OwnerID
	}
	return b.CustomerID
}

func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.Addons != nil {
		c.Addons = make(map[string]bool, len(b.Addons))
		for k, v := range b.Addons {
			c.Addons[k] = v
		}
	}
	c.StatusHistory = append(StatusHistory(nil), b.StatusHistory...)
	c.Messages = append([]Message(nil), b.Messages...)
	c.Condition = ConditionRecord{
		BeforeRental: b.Condition.BeforeRental.Clone(),
		AfterRental:  b.Condition.AfterRental.Clone(),
	}
	c.Penalties = b.Penalties.Clone()
	return &c
}

// MarshalJSON adds the derived status next to the stored history.
func (b Booking) MarshalJSON() ([]byte, error) {
	type plain Booking
	return json.Marshal(struct {
		plain
		Status BookingStatus `json:"status"`
	}{plain(b), b.Status()})
}

// BookingRequest is the creation input submitted by a customer.
type BookingRequest struct {
	VehicleID       string          `json:"vehicleId"`
	PickupDate      string          `json:"pickupDate"`
	ReturnDate      string          `json:"returnDate"`
	PickupTime      string          `json:"pickupTime"`
	ReturnTime      string          `json:"returnTime"`
	PickupLocation  string          `json:"pickupLocation"`
	ReturnLocation  string          `json:"returnLocation"`
	Addons          map[string]bool `json:"addons"`
	PromoCode       string          `json:"promoCode,omitempty"`
	SecurityDeposit int64           `json:"securityDeposit"`
	PaymentMethod   string          `json:"paymentMethod"`
	Notes           string          `json:"notes,omitempty"`
}

// ConditionUpload is an owner-supplied snapshot for one phase.
type ConditionUpload struct {
	BookingID         string         `json:"bookingId"`
	Phase             ConditionPhase `json:"phase"`
	PhotoURL          string         `json:"photoUrl"`
	Notes             string         `json:"notes"`
	FuelLevel         FuelLevel      `json:"fuelLevel"`
	ExteriorCondition ConditionGrade `json:"exteriorCondition"`
	InteriorCondition ConditionGrade `json:"interiorCondition"`
	Odometer          int64          `json:"odometer"`
}
