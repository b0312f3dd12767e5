package utils

import (
	"time"
)

// Act365F is the only day count convention supported for accrual and curve time.
const Act365F = "ACT/365F"

// YearFraction computes the ACT/365F year fraction between two dates.
//
// Whole calendar days are counted, so intraday clock differences never leak into
// the fraction.
func YearFraction(start, end time.Time) float64 {
	return float64(DaysBetween(start, end)) / 365.0
}
