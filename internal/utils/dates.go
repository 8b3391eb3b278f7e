// Package utils holds small date helpers shared by the inventory and
// reservation code.  All calendar math is done at day granularity in UTC.
package utils

import "time"

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Day truncates a timestamp to UTC midnight.  Inventory dates and stay
// boundaries are always normalized through this before use.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD) into a UTC
// midnight timestamp.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// Nights returns the number of nights a stay over [checkin, checkout)
// occupies.  Zero or negative values mean the range is invalid.
func Nights(checkin, checkout time.Time) int {
	return int(Day(checkout).Sub(Day(checkin)).Hours() / 24)
}

// DateRange returns every date in [start, end), one per day.  An empty
// slice is returned when end is not after start.
func DateRange(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	if !end.After(start) {
		return nil
	}
	dates := make([]time.Time, 0, Nights(start, end))
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// MonthEnd rounds a date up to the last calendar day of its month.
func MonthEnd(t time.Time) time.Time {
	y, m, _ := Day(t).Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
}

// MonthsOut returns the inventory horizon end for a start date: the
// given number of months ahead, rounded up to the end of that month.
// A six month horizon from any day in March therefore always ends on
// the last day of September, which keeps extension idempotent
// regardless of the day of month provisioning ran on.  The month is
// advanced by index rather than AddDate so that a late-month start
// (e.g. the 31st) never spills into the following month.
func MonthsOut(start time.Time, months int) time.Time {
	y, m, _ := Day(start).Date()
	return MonthEnd(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0))
}
