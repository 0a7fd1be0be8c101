package domain

import (
	"time"
)

// Status tags written to the ledger.
const (
	StatusPaused     = "paused"
	StatusRunning    = "running"
	StatusCorrection = "correction"
)

// DateLayout is the layout of the effective day stored with each entry.
const DateLayout = "2006-01-02"

// LedgerEntry is one persisted duration delta for a task on a day. The
// total for a (name, date) pair is the sum of its entries.
type LedgerEntry struct {
	ID        int64
	Name      string
	StartTime *time.Time
	EndTime   *time.Time
	Seconds   int64
	Status    string
	Date      string
}

// NewCreationEntry returns the zero-duration marker written the first time
// a task is seen on a day.
func NewCreationEntry(name, date string) LedgerEntry {
	return LedgerEntry{
		Name:   name,
		Status: StatusPaused,
		Date:   date,
	}
}

// NewCorrectionEntry returns a signed correction for a task on a day.
func NewCorrectionEntry(name, date string, delta int64) LedgerEntry {
	return LedgerEntry{
		Name:    name,
		Seconds: delta,
		Status:  StatusCorrection,
		Date:    date,
	}
}

// IsCorrection reports whether the entry is a manual correction.
func (e LedgerEntry) IsCorrection() bool {
	return e.Status == StatusCorrection
}

// DateOf returns the effective day for t in local time.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// EntryFilter selects ledger entries. Nil fields match everything; From
// and To are inclusive dates.
type EntryFilter struct {
	Name   *string
	Status *string
	From   *string
	To     *string
}
