package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	apperrors "task-timer/internal/errors"
	"task-timer/internal/repository/sqlite"
)

const reportRuleWidth = 40

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	repo sqlite.Repository
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(repo sqlite.Repository) ReportingService {
	return &reportingServiceImpl{repo: repo}
}

// MonthlyReport sums every task's entries in the month and computes each
// task's share of the grand total.
func (r *reportingServiceImpl) MonthlyReport(ctx context.Context, month, year int) (*MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.NewInvalidInputError("month", month, "must be between 1 and 12")
	}
	if year < 1000 || year > 9999 {
		return nil, apperrors.NewInvalidInputError("year", year, "must be a 4-digit year")
	}

	totals, err := r.repo.MonthlyTotals(ctx, month, year)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{Month: month, Year: year}
	if len(totals) == 0 {
		report.Outcome = OutcomeNoData
		return report, nil
	}

	for _, t := range totals {
		report.TotalSeconds += t.Seconds
	}
	if report.TotalSeconds == 0 {
		report.Outcome = OutcomeNoTime
		return report, nil
	}

	report.Rows = make([]ReportRow, 0, len(totals))
	for _, t := range totals {
		report.Rows = append(report.Rows, ReportRow{
			Name:    t.Name,
			Seconds: t.Seconds,
			Percent: float64(t.Seconds) / float64(report.TotalSeconds) * 100,
		})
	}
	report.Outcome = OutcomeOK
	return report, nil
}

// AvailableYears returns the distinct years that have ledger entries, oldest first
func (r *reportingServiceImpl) AvailableYears(ctx context.Context) ([]string, error) {
	dates, err := r.repo.SelectDistinct(ctx, "date")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	years := make([]string, 0)
	for _, d := range dates {
		if len(d) < 4 {
			continue
		}
		y := d[:4]
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Strings(years)
	return years, nil
}

// MonthChoices lists the selectable months as two-digit strings
func MonthChoices() []string {
	months := make([]string, 12)
	for i := range months {
		months[i] = fmt.Sprintf("%02d", i+1)
	}
	return months
}

// RenderText returns the human-readable copy of a report. savedTo is
// appended when the report was also exported.
func RenderText(report *MonthlyReport, savedTo string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Monthly Report for %s\n\n", report.Period())

	if report.Outcome != OutcomeOK {
		b.WriteString(report.Outcome.String())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("Time format: hh:mm:ss\n\n")
	fmt.Fprintf(&b, "%-20s %-10s %-5s\n", "Task", "Time", "%")
	b.WriteString(strings.Repeat("-", reportRuleWidth))
	b.WriteString("\n")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "%-20s %-10s %s%%\n", row.Name, row.Time(), row.PercentText())
	}

	if savedTo != "" {
		fmt.Fprintf(&b, "\nReport saved to:\n%s", savedTo)
	}
	return b.String()
}
