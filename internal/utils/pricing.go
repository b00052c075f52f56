package utils

import (
	"math"
	"time"
)

// RentalDays returns the billable day count for a rental period, rounding any
// partial day up. A non-positive result means the period is invalid and the
// rental request must be rejected.
func RentalDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	return int(math.Ceil(hours / 24))
}

// CalculateRentalPrice computes the total price in cents for the period.
func CalculateRentalPrice(start, end time.Time, pricePerDayCents int64) int64 {
	days := RentalDays(start, end)
	if days <= 0 {
		return 0
	}
	return int64(days) * pricePerDayCents
}
