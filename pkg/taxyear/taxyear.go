// Package taxyear holds the calendar arithmetic for the heavy vehicle use tax
// period, which runs from July 1 through June 30 of the following year.
package taxyear

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidMonth is returned when a month name cannot be parsed.
var ErrInvalidMonth = errors.New("invalid month")

// FirstMonth is the month the tax period opens in.
const FirstMonth = time.July

var monthNames = map[string]time.Month{}

func init() {
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		monthNames[name] = m
		monthNames[name[:3]] = m
	}
	monthNames["sept"] = time.September
}

// ParseMonth parses a full English month name or its three-letter
// abbreviation, ignoring case and surrounding space.
func ParseMonth(s string) (time.Month, error) {
	m, ok := monthNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return m, nil
}

// Index returns the position of m within the tax period (July=1 ... June=12).
func Index(m time.Month) int {
	return (int(m)-int(FirstMonth)+12)%12 + 1
}

// MonthsRemaining counts the months from m through June inclusive.
func MonthsRemaining(m time.Month) int {
	return 13 - Index(m)
}

// CalendarYear returns the calendar year month m falls in for the tax period
// that starts in July of taxYear.
func CalendarYear(taxYear int, m time.Month) int {
	if m >= FirstMonth {
		return taxYear
	}
	return taxYear + 1
}

// ForDate returns the tax period (by its starting calendar year) that contains date.
func ForDate(date time.Time) int {
	if date.Month() >= FirstMonth {
		return date.Year()
	}
	return date.Year() - 1
}

// LastDayOfMonth returns the last calendar day of the given month.
func LastDayOfMonth(year int, m time.Month) time.Time {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC)
}

// DueDate returns the filing deadline for an event in month m of the tax
// period starting in taxYear: the last day of the following month.
func DueDate(taxYear int, m time.Month) time.Time {
	year := CalendarYear(taxYear, m)
	return LastDayOfMonth(year, m+1)
}

// Months lists the months of the tax period in order.
func Months() []time.Month {
	months := make([]time.Month, 0, 12)
	for i := 0; i < 12; i++ {
		months = append(months, time.Month((int(FirstMonth)-1+i)%12+1))
	}
	return months
}
