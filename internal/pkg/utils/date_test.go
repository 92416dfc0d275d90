package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestDaysInclusive(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2024-03-01", "2024-03-01", 1},
		{"2024-03-01", "2024-03-03", 3},
		{"2024-02-28", "2024-03-01", 3}, // leap year
		{"2023-12-31", "2024-01-01", 2},
		{"2024-03-03", "2024-03-01", -1},
	}
	for _, tt := range tests {
		got := DaysInclusive(mustDate(t, tt.start), mustDate(t, tt.end))
		assert.Equal(t, tt.want, got, "%s..%s", tt.start, tt.end)
	}
}

func TestDateRange(t *testing.T) {
	days := DateRange(mustDate(t, "2024-03-01"), mustDate(t, "2024-03-03"))
	require.Len(t, days, 3)
	assert.Equal(t, "2024-03-01", days[0].Format(DateLayout))
	assert.Equal(t, "2024-03-02", days[1].Format(DateLayout))
	assert.Equal(t, "2024-03-03", days[2].Format(DateLayout))

	assert.Empty(t, DateRange(mustDate(t, "2024-03-03"), mustDate(t, "2024-03-01")))
}

func TestDateOf_UsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	instant := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC) // 03:00 next day in WIB

	assert.Equal(t, "2024-03-01", DateOf(instant, time.UTC).Format(DateLayout))
	assert.Equal(t, "2024-03-02", DateOf(instant, jakarta).Format(DateLayout))
	assert.Equal(t, "03:00:00", Clock(instant, jakarta))
}

func TestHoursBetween(t *testing.T) {
	h, err := HoursBetween("09:00:00", "17:30:00")
	require.NoError(t, err)
	assert.Equal(t, 8.5, h)

	h, err = HoursBetween("09:00:00", "09:20:00")
	require.NoError(t, err)
	assert.Equal(t, 0.33, h)

	_, err = HoursBetween("17:00:00", "09:00:00")
	assert.ErrorIs(t, err, ErrClockOrder)

	_, err = HoursBetween("9am", "17:00:00")
	assert.Error(t, err)
}
