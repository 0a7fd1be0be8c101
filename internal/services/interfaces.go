package services

import (
	"context"
	"time"

	"task-timer/internal/domain"
)

// Snapshot is the in-memory state of a task to persist for one day.
type Snapshot struct {
	Name   string
	Date   string
	Total  int64 // whole seconds the task holds for Date
	Status string
	Start  *time.Time // informational
	End    *time.Time // informational
}

// Outcome distinguishes an empty report from a populated one. Neither
// empty outcome is an error.
type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeNoData means no ledger rows fall in the month.
	OutcomeNoData
	// OutcomeNoTime means rows exist but sum to zero.
	OutcomeNoTime
)

// String returns a short description of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeNoData:
		return "No tasks found for the selected month."
	case OutcomeNoTime:
		return "No time tracked for the selected month."
	default:
		return "ok"
	}
}

// ReportRow is one task's share of a month.
type ReportRow struct {
	Name    string
	Seconds int64
	Percent float64
}

// Time renders the row duration as HH:MM:SS
func (r ReportRow) Time() string {
	return domain.FormatHMS(r.Seconds)
}

// PercentText renders the share with one decimal place
func (r ReportRow) PercentText() string {
	return formatPercent(r.Percent)
}

// MonthlyReport aggregates a month of ledger entries per task.
type MonthlyReport struct {
	Month        int
	Year         int
	Rows         []ReportRow
	TotalSeconds int64
	Outcome      Outcome
}

// Period renders the month as YYYY-MM
func (m *MonthlyReport) Period() string {
	return periodLabel(m.Month, m.Year)
}

// Title is the sheet title used for exports
func (m *MonthlyReport) Title() string {
	return m.Period() + " Report"
}

// TaskDay is a task's recorded activity for one date.
type TaskDay struct {
	Name        string
	Date        string
	Seconds     int64
	Entries     int
	Corrections int64 // sum of correction deltas
}

// SearchCriteria selects ledger entries for history views.
type SearchCriteria struct {
	Name            string
	From            string
	To              string
	CorrectionsOnly bool
}

// SortOrder defines how history results should be sorted
type SortOrder string

const (
	SortByDate     SortOrder = "date"     // oldest first (default)
	SortByName     SortOrder = "name"     // alphabetical, then date
	SortByDuration SortOrder = "duration" // largest total first
)

// LedgerService turns timer state into appended ledger rows and reads
// totals back.
type LedgerService interface {
	// RecordCreation writes the zero-duration marker for (name, date)
	// unless any row exists. It reports whether a row was written.
	RecordCreation(ctx context.Context, name, date string) (bool, error)
	// RecordSnapshot appends the difference between s.Total and what is
	// already persisted for (s.Name, s.Date). It returns the delta written,
	// zero when nothing changed.
	RecordSnapshot(ctx context.Context, s Snapshot) (int64, error)
	// RecordCorrection appends a signed correction row. It does not move
	// the persisted baseline.
	RecordCorrection(ctx context.Context, name, date string, delta int64) error
	// TotalFor sums every row for (name, date).
	TotalFor(ctx context.Context, name, date string) (int64, error)
	// Seed records how many seconds are persisted for (name, date).
	Seed(name, date string, persisted int64)
	// Persisted returns the tracked persisted total for (name, date).
	Persisted(name, date string) (int64, bool)
	// Forget drops bookkeeping for a day that is no longer current.
	Forget(date string)
}

// TaskService answers questions about known tasks.
type TaskService interface {
	KnownTasks(ctx context.Context) ([]string, error)
	DaySummary(ctx context.Context, date string) ([]*TaskDay, error)
}

// SearchService handles history lookups over the ledger.
type SearchService interface {
	SearchEntries(ctx context.Context, criteria SearchCriteria) ([]domain.LedgerEntry, error)
	DailyTotals(ctx context.Context, criteria SearchCriteria, order SortOrder) ([]*TaskDay, error)
}

// ReportingService builds monthly reports.
type ReportingService interface {
	MonthlyReport(ctx context.Context, month, year int) (*MonthlyReport, error)
	AvailableYears(ctx context.Context) ([]string, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	LedgerService    LedgerService
	TaskService      TaskService
	SearchService    SearchService
	ReportingService ReportingService
}
