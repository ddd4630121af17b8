package domain

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// PaymentLedger is bookkeeping only; no funds move through it.
// Total is always recomputed from the component fields. LateFees is the sum
// of the charges the owner posted and the fee accrued from the clock; only
// the accrued part is ever replaced.
type PaymentLedger struct {
	Status          PaymentStatus `json:"status"`
	Paid            int64         `json:"paid"`
	Total           int64         `json:"total"`
	Method          string        `json:"method"`
	BaseRental      int64         `json:"baseRental"`
	SecurityDeposit int64         `json:"securityDeposit"`
	AddonsTotal     int64         `json:"addonsTotal"`
	DiscountAmount  int64         `json:"discountAmount"`
	LateFees        int64         `json:"lateFees"`
	PostedLateFees  int64         `json:"postedLateFees"`
	AccruedLateFees int64         `json:"accruedLateFees"`
	Penalties       int64         `json:"penalties"`
}

// Balance is what remains to be collected.
func (l PaymentLedger) Balance() int64 {
	if l.Paid >= l.Total {
		return 0
	}
	return l.Total - l.Paid
}
