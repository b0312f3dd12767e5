package utils

import (
	"fmt"
	"log"
	"math"
	"time"
)

// Date layouts accepted by the parsers.
const (
	// DayMonthYear is the market layout used for bond and observation dates (e.g. 01-09-2024).
	DayMonthYear = "02-01-2006"
	// ISODate is used for JSON output.
	ISODate = "2006-01-02"
)

// ParseDate parses s with the given layout, falling back to DayMonthYear when layout is empty.
func ParseDate(layout, s string) (time.Time, error) {
	if layout == "" {
		layout = DayMonthYear
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: %q does not match layout %q: %w", s, layout, err)
	}
	return t, nil
}

// DateParser converts DD-MM-YYYY to time.Time or exits on error.
func DateParser(strDate string) time.Time {
	t, err := ParseDate(DayMonthYear, strDate)
	if err != nil {
		log.Fatal(err)
	}
	return t
}

// Days returns the day count fraction in days between two dates.
func Days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// DaysBetween returns the whole number of calendar days from start to end (ACT).
// The result is negative when end is before start.
func DaysBetween(start, end time.Time) int {
	return int(math.Round(Days(start, end)))
}

// RoundTo rounds a float to the specified decimal places.
func RoundTo(val float64, decimals uint32) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
