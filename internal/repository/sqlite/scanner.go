package sqlite

import (
	"database/sql"
	"time"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanEntry scans a single ledger row. Timestamps that do not parse are
// treated as absent since they are informational only.
func ScanEntry(scanner Scanner) (*Entry, error) {
	entry := &Entry{}
	var startTime, endTime, status, date sql.NullString

	err := scanner.Scan(
		&entry.ID,
		&entry.Name,
		&startTime,
		&endTime,
		&entry.TotalTime,
		&status,
		&date,
	)
	if err != nil {
		return nil, err
	}

	entry.StartTime = parseNullTime(startTime)
	entry.EndTime = parseNullTime(endTime)
	entry.Status = status.String
	entry.Date = date.String

	return entry, nil
}

// ScanEntries scans multiple ledger rows
func ScanEntries(rows Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		entry, err := ScanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ScanTaskTotal scans a (name, seconds) aggregate row
func ScanTaskTotal(scanner Scanner) (*TaskTotal, error) {
	total := &TaskTotal{}
	if err := scanner.Scan(&total.Name, &total.Seconds); err != nil {
		return nil, err
	}
	return total, nil
}

// ScanTaskTotals scans multiple aggregate rows
func ScanTaskTotals(rows Rows) ([]*TaskTotal, error) {
	var totals []*TaskTotal
	for rows.Next() {
		total, err := ScanTaskTotal(rows)
		if err != nil {
			return nil, err
		}
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return totals, nil
}

// ScanString scans a single text column; NULL becomes the empty string
func ScanString(scanner Scanner) (*string, error) {
	var value sql.NullString
	if err := scanner.Scan(&value); err != nil {
		return nil, err
	}
	return &value.String, nil
}

// ScanStrings scans multiple single-column rows
func ScanStrings(rows Rows) ([]*string, error) {
	var values []*string
	for rows.Next() {
		value, err := ScanString(rows)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

func parseNullTime(value sql.NullString) *time.Time {
	if !value.Valid || value.String == "" {
		return nil
	}
	t, err := ParseTimeFromDB(value.String)
	if err != nil {
		return nil
	}
	return &t
}
