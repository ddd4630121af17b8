package utils

import (
	"fmt"
	"math"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// LateFeePerHour is charged for every started hour past the scheduled return.
	LateFeePerHour int64 = 200
)

// PromoLookup resolves a promo code to a percent discount.
type PromoLookup interface {
	PromoPercent(code string) (int64, bool)
}

// AddonLookup resolves an add-on flag to its fixed price.
type AddonLookup interface {
	AddonPrice(name string) (int64, bool)
}

// ParseDate converts a yyyy-mm-dd string into a UTC midnight time.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd: %q", dateStr)
	}
	return t, nil
}

// ParseClock validates an HH:MM time of day. Empty input means midnight.
func ParseClock(clock string) (time.Duration, error) {
	if clock == "" {
		return 0, nil
	}
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time format, expected HH:MM: %q", clock)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// CombineDateTime joins a yyyy-mm-dd date and an HH:MM clock in loc.
func CombineDateTime(dateStr, clock string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	offset, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc).Add(offset), nil
}

// TotalDays is returnDate minus pickupDate in whole calendar days. The
// result may be zero or negative; callers reject those.
func TotalDays(pickupDate, returnDate string) (int, error) {
	start, err := ParseDate(pickupDate)
	if err != nil {
		return 0, fmt.Errorf("invalid pickup date: %w", err)
	}
	end, err := ParseDate(returnDate)
	if err != nil {
		return 0, fmt.Errorf("invalid return date: %w", err)
	}
	return int(end.Sub(start).Hours() / 24), nil
}

// Overlaps is the half-open interval test: [aStart, aEnd) and [bStart, bEnd)
// intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func BaseRental(dailyRate int64, totalDays int) int64 {
	if dailyRate <= 0 || totalDays <= 0 {
		return 0
	}
	return dailyRate * int64(totalDays)
}

// AddonsTotal sums the prices of the enabled add-ons. Unknown names cost nothing.
func AddonsTotal(lookup AddonLookup, addons map[string]bool) int64 {
	var total int64
	for name, on := range addons {
		if !on {
			continue
		}
		if price, ok := lookup.AddonPrice(name); ok {
			total += price
		}
	}
	return total
}

// ApplyDiscount returns the discount for a promo code on subtotal
// (base rental plus add-ons). Unknown or empty codes yield zero.
func ApplyDiscount(lookup PromoLookup, subtotal int64, promoCode string) int64 {
	if promoCode == "" || subtotal <= 0 {
		return 0
	}
	pct, ok := lookup.PromoPercent(promoCode)
	if !ok {
		return 0
	}
	return subtotal * pct / 100
}

// ComputeTotal is base + add-ons + deposit + late fees - discount, floored at zero.
func ComputeTotal(baseRental, addonsTotal, securityDeposit, discountAmount, lateFees int64) int64 {
	total := baseRental + addonsTotal + securityDeposit + lateFees - discountAmount
	if total < 0 {
		return 0
	}
	return total
}

// LateFee charges LateFeePerHour for each started hour after scheduled.
func LateFee(scheduled, actual time.Time) int64 {
	if scheduled.IsZero() || actual.IsZero() || !actual.After(scheduled) {
		return 0
	}
	hours := math.Ceil(actual.Sub(scheduled).Hours())
	return int64(hours) * LateFeePerHour
}
