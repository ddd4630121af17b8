package domain

import "time"

type VehicleApproval string

const (
	VehicleApprovalPending  VehicleApproval = "pending"
	VehicleApprovalApproved VehicleApproval = "approved"
	VehicleApprovalRejected VehicleApproval = "rejected"
)

func (a VehicleApproval) IsValid() bool {
	switch a {
	case VehicleApprovalPending, VehicleApprovalApproved, VehicleApprovalRejected:
		return true
	}
	return false
}

type VehicleClass string

const (
	VehicleClassSedan      VehicleClass = "sedan"
	VehicleClassSUV        VehicleClass = "suv"
	VehicleClassVan        VehicleClass = "van"
	VehicleClassPickup     VehicleClass = "pickup"
	VehicleClassMotorcycle VehicleClass = "motorcycle"
)

type Vehicle struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	Name      string          `json:"name"`
	Class     VehicleClass    `json:"class"`
	DailyRate int64           `json:"dailyRate"`
	Approval  VehicleApproval `json:"approvalStatus"`
	Available bool            `json:"available"`
	Location  string          `json:"location"`
	CreatedOn time.Time       `json:"createdOn"`
	UpdatedOn time.Time       `json:"updatedOn"`
}

// IsBookable reports whether the vehicle is listed for rental at all.
// Date-range availability is checked separately.
func (v *Vehicle) IsBookable() bool {
	return v.Approval == VehicleApprovalApproved && v.Available
}
