package api

import (
	"context"

	"task-timer/internal/export"
	"task-timer/internal/services"
	"task-timer/internal/validation"
)

// GenerateReport builds the monthly report, exports it when the month has
// tracked time, and returns the readable text.
func (t *Tracker) GenerateReport(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	var result *ReportResult
	err := t.do(ctx, func() error {
		if err := t.input.RequireSelection("month", req.Month); err != nil {
			return err
		}
		if err := t.input.RequireSelection("year", req.Year); err != nil {
			return err
		}
		month, err := t.input.ParseMonth(req.Month)
		if err != nil {
			return validation.ToAppError(err)
		}
		year, err := t.input.ParseYear(req.Year)
		if err != nil {
			return validation.ToAppError(err)
		}

		format := req.Format
		if format == "" {
			format = t.opts.ReportFormat
		}
		writer, err := export.ForFormat(format)
		if err != nil {
			return err
		}

		// include time not yet snapshotted
		if err := t.flushAll(t.now()); err != nil {
			t.logger.Warn("report generated without unsaved time", "error", err)
		}

		sctx, cancel := t.storeContext()
		defer cancel()
		report, err := t.reporting.MonthlyReport(sctx, month, year)
		if err != nil {
			return err
		}

		result = &ReportResult{Report: report}
		if report.Outcome != services.OutcomeOK {
			result.Text = report.Outcome.String()
			return nil
		}

		dest, err := export.Destination(t.opts.ReportsDir, year, month, writer.Extension())
		if err != nil {
			return err
		}
		rows := make([]export.Row, 0, len(report.Rows))
		for _, r := range report.Rows {
			rows = append(rows, export.Row{Name: r.Name, Time: r.Time(), Percent: r.PercentText()})
		}
		if err := writer.WriteTable(report.Title(), rows, dest); err != nil {
			return err
		}

		result.Path = dest
		result.Text = services.RenderText(report, dest)
		t.logger.Info("report generated", "period", report.Period(), "tasks", len(report.Rows), "path", dest)
		return nil
	})
	return result, err
}
