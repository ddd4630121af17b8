package domain

type PenaltyCategory string

const (
	PenaltyFuelShortfall  PenaltyCategory = "fuel_shortfall"
	PenaltyExteriorDamage PenaltyCategory = "exterior_damage"
	PenaltyInteriorDamage PenaltyCategory = "interior_damage"
	PenaltyExcessMileage  PenaltyCategory = "excess_mileage"
	PenaltyLateReturn     PenaltyCategory = "late_return"
	PenaltySmoking        PenaltyCategory = "smoking"
	PenaltyPet            PenaltyCategory = "pet"
	PenaltyCleaning       PenaltyCategory = "cleaning"
	PenaltyAdminFee       PenaltyCategory = "admin_fee"
)

type PenaltyLineItem struct {
	Category    PenaltyCategory `json:"category"`
	Description string          `json:"description"`
	Amount      int64           `json:"amount"`
}

// AssessmentOutcome separates "nothing recorded" from "no damage found";
// both carry an empty line item list.
type AssessmentOutcome string

const (
	AssessmentNotAssessed        AssessmentOutcome = "not_assessed"
	AssessmentAssessedNoDamage   AssessmentOutcome = "assessed_no_damage"
	AssessmentAssessedWithDamage AssessmentOutcome = "assessed_with_damage"
)

type PenaltyReport struct {
	Outcome   AssessmentOutcome `json:"outcome"`
	LineItems []PenaltyLineItem `json:"lineItems"`
	Total     int64             `json:"total"`
}

// Has reports whether a line item of the given category is present.
func (r *PenaltyReport) Has(category PenaltyCategory) bool {
	return r.Amount(category) > 0
}

// Amount sums the line items of one category.
func (r *PenaltyReport) Amount(category PenaltyCategory) int64 {
	if r == nil {
		return 0
	}
	var sum int64
	for _, item := range r.LineItems {
		if item.Category == category {
			sum += item.Amount
		}
	}
	return sum
}

func (r *PenaltyReport) Clone() *PenaltyReport {
	if r == nil {
		return nil
	}
	c := *r
	c.LineItems = make([]PenaltyLineItem, len(r.LineItems))
	copy(c.LineItems, r.LineItems)
	return &c
}
