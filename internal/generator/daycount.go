package generator

import (
	"math"
	"strings"
	"time"
)

const oneDay = 24 * time.Hour

// DayCount returns the inclusive number of calendar days from start to end:
// ceil((end-start)/24h) + 1. A same-day trip has one day.
func DayCount(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, invalidField("endDate", "endDate must not be before startDate")
	}
	return int(math.Ceil(float64(end.Sub(start))/float64(oneDay))) + 1, nil
}

// ParseDate accepts a calendar date (2006-01-02) or a full RFC 3339 timestamp.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, missingField(field)
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, invalidField(field, "%s must be a date in YYYY-MM-DD format", field)
}

// dateRange parses both ends and returns the parsed start and the day count.
func dateRange(startDate, endDate string) (time.Time, int, error) {
	start, err := ParseDate("startDate", startDate)
	if err != nil {
		return time.Time{}, 0, err
	}
	end, err := ParseDate("endDate", endDate)
	if err != nil {
		return time.Time{}, 0, err
	}
	n, err := DayCount(start, end)
	if err != nil {
		return time.Time{}, 0, err
	}
	return start, n, nil
}
