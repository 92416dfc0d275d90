package utils

import (
	"errors"
	"math"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

var ErrClockOrder = errors.New("check-out must be after check-in")

// ParseDate parses YYYY-MM-DD into a UTC midnight value.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// DateOf strips the time of day from t as seen in loc and returns that calendar
// day as UTC midnight.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive counts calendar days in [start, end]. It returns a value below 1
// when end is before start.
func DaysInclusive(start, end time.Time) int {
	start, end = DateOf(start, nil), DateOf(end, nil)
	return int(math.Round(end.Sub(start).Hours()/24)) + 1
}

// DateRange lists every calendar day in [start, end].
func DateRange(start, end time.Time) []time.Time {
	n := DaysInclusive(start, end)
	if n < 1 {
		return nil
	}
	days := make([]time.Time, 0, n)
	day := DateOf(start, nil)
	for i := 0; i < n; i++ {
		days = append(days, day.AddDate(0, 0, i))
	}
	return days
}

// YearBounds returns [Jan 1, Jan 1 next year) for year.
func YearBounds(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

// Clock formats the wall-clock part of t in loc.
func Clock(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(ClockLayout)
}

// HoursBetween returns checkOut - checkIn in hours, rounded to 2 decimals.
func HoursBetween(checkIn, checkOut string) (float64, error) {
	in, err := time.Parse(ClockLayout, checkIn)
	if err != nil {
		return 0, err
	}
	out, err := time.Parse(ClockLayout, checkOut)
	if err != nil {
		return 0, err
	}
	if out.Before(in) {
		return 0, ErrClockOrder
	}
	return Round2(out.Sub(in).Hours()), nil
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
