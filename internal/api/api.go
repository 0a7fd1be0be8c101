// Package api is the application controller. A Tracker owns every task
// timer and all ledger writes, and serializes them on one event loop.
package api

import (
	"context"
	"time"

	"task-timer/internal/domain"
	"task-timer/internal/idle"
	"task-timer/internal/services"
)

// TaskView is a value snapshot of a task for display.
type TaskView struct {
	Name    string
	State   domain.TimerState
	Action  string
	Seconds int64
}

// Time renders the task's total for today as HH:MM:SS
func (v TaskView) Time() string {
	return domain.FormatHMS(v.Seconds)
}

// Running reports whether the task has a session in progress
func (v TaskView) Running() bool {
	return v.State == domain.Running
}

// Overview is everything a screen needs to render one frame.
type Overview struct {
	Header    string
	Today     string
	Tasks     []TaskView
	Idle      idle.Status
	LastSaved time.Time
	LastError string
}

// CorrectionRequest removes time from a task on a day. Hours, minutes and
// seconds are the raw field values; empty fields count as zero.
type CorrectionRequest struct {
	Task    string
	Hours   string
	Minutes string
	Seconds string
	Date    string
}

// CorrectionResult describes an applied correction.
type CorrectionResult struct {
	Task      string
	Date      string
	Removed   int64
	Message   string
	Refreshed *TaskView // set when the in-memory task for today was updated
}

// ReportRequest selects a month to report on. Format defaults to the
// configured export format.
type ReportRequest struct {
	Month  string
	Year   string
	Format string
}

// ReportResult is a generated report. Path is empty when nothing was
// exported because the month had no data or no time.
type ReportResult struct {
	Report *services.MonthlyReport
	Path   string
	Text   string
}

// API defines the operations the presentation layer can perform. Every
// call is executed on the controller loop, so Run must be active.
type API interface {
	// Run drives the event loop until ctx is done, then pauses and flushes
	// every running task.
	Run(ctx context.Context) error

	// ========== Task timers ==========

	// AddTask loads or creates the task for today. Adding a task that is
	// already loaded returns it unchanged.
	AddTask(ctx context.Context, name string) (TaskView, error)
	// Toggle pauses a running task and starts a paused one.
	Toggle(ctx context.Context, name string) (TaskView, error)
	Start(ctx context.Context, name string) (TaskView, error)
	Pause(ctx context.Context, name string) (TaskView, error)
	// PauseAll pauses every running task and returns the ones it paused.
	PauseAll(ctx context.Context) ([]TaskView, error)
	// SetManualTime sets today's total for a task from an hh:mm:ss string.
	SetManualTime(ctx context.Context, name, hms string) (TaskView, error)
	// AddCorrection removes time from a task on a day.
	AddCorrection(ctx context.Context, req CorrectionRequest) (*CorrectionResult, error)

	// ========== Idle detection ==========

	SetIdleEnabled(ctx context.Context, enabled bool) (idle.Status, error)
	// SetIdleTimeout sets the inactivity threshold from a whole number of minutes.
	SetIdleTimeout(ctx context.Context, minutes string) (idle.Status, error)

	// ========== Queries ==========

	Tasks(ctx context.Context) ([]TaskView, error)
	Overview(ctx context.Context) (*Overview, error)
	TaskNames(ctx context.Context) ([]string, error)
	AvailableYears(ctx context.Context) ([]string, error)
	DaySummary(ctx context.Context, date string) ([]*services.TaskDay, error)
	History(ctx context.Context, criteria services.SearchCriteria, order services.SortOrder) ([]*services.TaskDay, error)

	// ========== Reports ==========

	GenerateReport(ctx context.Context, req ReportRequest) (*ReportResult, error)
}

// Header renders the day banner, e.g. "Today, March 14".
func Header(now time.Time) string {
	return "Today, " + now.Format("January 02")
}
