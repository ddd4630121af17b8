package assessment

import (
	"fmt"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/utils"
)

const (
	KilometresPerDay   int64 = 300
	ExcessKilometreFee int64 = 5
	AdminFee           int64 = 300
)

// Fuel shortfall is priced by the level the vehicle was handed over at.
var fuelShortfallFee = map[domain.FuelLevel]int64{
	domain.FuelFull:          1000,
	domain.FuelThreeQuarters: 750,
	domain.FuelHalf:          500,
	domain.FuelQuarter:       250,
}

// Damage fees are keyed by how many steps the grade dropped.
var exteriorDamageFee = map[int]int64{1: 500, 2: 2000, 3: 5000}
var interiorDamageFee = map[int]int64{1: 500, 2: 1500, 3: 3000}

type rule func(before, after *domain.ConditionSnapshot, meta Metadata) (domain.PenaltyLineItem, bool)

// rules run in this order; each is evaluated independently.
var rules = []rule{
	fuelShortfall,
	exteriorDamage,
	interiorDamage,
	excessMileage,
	lateReturn,
}

func fuelShortfall(before, after *domain.ConditionSnapshot, _ Metadata) (domain.PenaltyLineItem, bool) {
	b, okB := before.FuelLevel.Rank()
	a, okA := after.FuelLevel.Rank()
	if !okA || !okB || a <= b {
		return domain.PenaltyLineItem{}, false
	}
	fee, ok := fuelShortfallFee[before.FuelLevel]
	if !ok {
		return domain.PenaltyLineItem{}, false
	}
	return domain.PenaltyLineItem{
		Category:    domain.PenaltyFuelShortfall,
		Description: fmt.Sprintf("Fuel returned at %s, handed over at %s", after.FuelLevel, before.FuelLevel),
		Amount:      fee,
	}, true
}

func exteriorDamage(before, after *domain.ConditionSnapshot, _ Metadata) (domain.PenaltyLineItem, bool) {
	return gradeDrop(domain.PenaltyExteriorDamage, "Exterior", before.ExteriorCondition, after.ExteriorCondition, exteriorDamageFee)
}

func interiorDamage(before, after *domain.ConditionSnapshot, _ Metadata) (domain.PenaltyLineItem, bool) {
	return gradeDrop(domain.PenaltyInteriorDamage, "Interior", before.InteriorCondition, after.InteriorCondition, interiorDamageFee)
}

func gradeDrop(category domain.PenaltyCategory, label string, before, after domain.ConditionGrade, fees map[int]int64) (domain.PenaltyLineItem, bool) {
	b, okB := before.Rank()
	a, okA := after.Rank()
	if !okA || !okB || a <= b {
		return domain.PenaltyLineItem{}, false
	}
	steps := a - b
	fee, ok := fees[steps]
	if !ok {
		return domain.PenaltyLineItem{}, false
	}
	return domain.PenaltyLineItem{
		Category:    category,
		Description: fmt.Sprintf("%s condition dropped from %s to %s (%d step(s))", label, before, after, steps),
		Amount:      fee,
	}, true
}

func excessMileage(before, after *domain.ConditionSnapshot, meta Metadata) (domain.PenaltyLineItem, bool) {
	driven := after.Odometer - before.Odometer
	allowance := int64(meta.TotalDays) * KilometresPerDay
	if allowance < 0 {
		allowance = 0
	}
	excess := driven - allowance
	if excess <= 0 {
		return domain.PenaltyLineItem{}, false
	}
	return domain.PenaltyLineItem{
		Category:    domain.PenaltyExcessMileage,
		Description: fmt.Sprintf("Driven %d km, %d km over the %d km allowance", driven, excess, allowance),
		Amount:      excess * ExcessKilometreFee,
	}, true
}

func lateReturn(_, _ *domain.ConditionSnapshot, meta Metadata) (domain.PenaltyLineItem, bool) {
	fee := utils.LateFee(meta.ScheduledReturn, meta.ActualReturn)
	if fee <= 0 {
		return domain.PenaltyLineItem{}, false
	}
	return domain.PenaltyLineItem{
		Category:    domain.PenaltyLateReturn,
		Description: fmt.Sprintf("Returned %d hour(s) after the scheduled return", fee/utils.LateFeePerHour),
		Amount:      fee,
	}, true
}
