package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"task-timer/internal/api"
	"task-timer/internal/errors"
)

// ReportCommand handles the report command
type ReportCommand struct {
	app *App
	// Format overrides the configured export format when set.
	Format string
}

// NewReportCommand creates a new report command handler
func NewReportCommand(app *App) *ReportCommand {
	return &ReportCommand{app: app}
}

// Execute runs the report command. Arguments are an optional month and
// year; both default to the current month.
func (c *ReportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return errors.NewInvalidInputError("arguments", strings.Join(args, " "), "usage: tm report [month] [year]")
	}

	now := timeNow()
	req := api.ReportRequest{
		Month:  fmt.Sprintf("%02d", int(now.Month())),
		Year:   strconv.Itoa(now.Year()),
		Format: c.Format,
	}
	if len(args) > 0 {
		req.Month = args[0]
	}
	if len(args) > 1 {
		req.Year = args[1]
	}

	result, err := c.app.api.GenerateReport(ctx, req)
	if err != nil {
		return c.app.errors.Handle("generate report", err)
	}

	c.app.printf("%s", result.Text)
	if !strings.HasSuffix(result.Text, "\n") {
		c.app.println()
	}
	return nil
}
