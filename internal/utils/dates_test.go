package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDay(t *testing.T) {
	in := time.Date(2026, time.March, 14, 23, 59, 58, 7, time.FixedZone("x", 3600))
	got := Day(in)
	assert.Equal(t, date(2026, time.March, 14), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.March, 14), got)

	_, err = ParseDate("14/03/2026")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkin  time.Time
		checkout time.Time
		want     int
	}{
		{"one night", date(2026, time.June, 1), date(2026, time.June, 2), 1},
		{"four nights", date(2026, time.June, 1), date(2026, time.June, 5), 4},
		{"same day", date(2026, time.June, 1), date(2026, time.June, 1), 0},
		{"inverted", date(2026, time.June, 5), date(2026, time.June, 1), -4},
		{"across month end", date(2026, time.June, 29), date(2026, time.July, 2), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(tt.checkin, tt.checkout))
		})
	}
}

func TestDateRange(t *testing.T) {
	got := DateRange(date(2026, time.June, 1), date(2026, time.June, 4))
	require.Len(t, got, 3)
	assert.Equal(t, date(2026, time.June, 1), got[0])
	assert.Equal(t, date(2026, time.June, 3), got[2])

	assert.Empty(t, DateRange(date(2026, time.June, 4), date(2026, time.June, 4)))
	assert.Empty(t, DateRange(date(2026, time.June, 4), date(2026, time.June, 1)))
}

func TestMonthEnd(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"mid month", date(2026, time.June, 14), date(2026, time.June, 30)},
		{"already last day", date(2026, time.June, 30), date(2026, time.June, 30)},
		{"february", date(2026, time.February, 1), date(2026, time.February, 28)},
		{"leap february", date(2028, time.February, 10), date(2028, time.February, 29)},
		{"december", date(2026, time.December, 5), date(2026, time.December, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthEnd(tt.in))
		})
	}
}

func TestMonthsOut(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		// Any start day within a month lands on the same horizon end.
		{"first of march", date(2026, time.March, 1), 6, date(2026, time.September, 30)},
		{"mid march", date(2026, time.March, 15), 6, date(2026, time.September, 30)},
		// A 31st must not spill past the horizon month.
		{"end of march", date(2026, time.March, 31), 6, date(2026, time.September, 30)},
		{"twelve months", date(2026, time.January, 15), 12, date(2027, time.January, 31)},
		{"across year end", date(2026, time.October, 20), 6, date(2027, time.April, 30)},
		{"zero months", date(2026, time.June, 10), 0, date(2026, time.June, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsOut(tt.start, tt.months))
		})
	}
}
