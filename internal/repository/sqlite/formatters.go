package sqlite

import (
	"fmt"
	"time"
)

// FormatTimeForDB formats a time.Time value as RFC3339 string for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.Format(time.RFC3339)
}

// FormatTimePtrForDB formats a *time.Time value as RFC3339 string, returning nil if the pointer is nil
func FormatTimePtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimeForDB(*t)
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// MonthBounds returns the first day of the month and the first day of the
// following month as YYYY-MM-DD strings, for half-open date range queries.
func MonthBounds(month, year int) (string, string, error) {
	if month < 1 || month > 12 {
		return "", "", fmt.Errorf("month %d out of range", month)
	}
	if year < 1000 || year > 9999 {
		return "", "", fmt.Errorf("year %d is not a four digit year", year)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first.Format("2006-01-02"), first.AddDate(0, 1, 0).Format("2006-01-02"), nil
}
