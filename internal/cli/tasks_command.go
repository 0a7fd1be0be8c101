package cli

import (
	"context"
	"strings"

	"github.com/dustin/go-humanize"

	"task-timer/internal/domain"
	"task-timer/internal/errors"
)

// TasksCommand handles the tasks command
type TasksCommand struct {
	app *App
}

// NewTasksCommand creates a new tasks command handler
func NewTasksCommand(app *App) *TasksCommand {
	return &TasksCommand{app: app}
}

// Execute prints the per-task totals for a day, today by default
func (c *TasksCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.NewInvalidInputError("arguments", strings.Join(args, " "), "usage: tm tasks [YYYY-MM-DD]")
	}

	date := domain.DateOf(timeNow())
	if len(args) == 1 {
		date = args[0]
	}

	days, err := c.app.api.DaySummary(ctx, date)
	if err != nil {
		return c.app.errors.Handle("load day summary", err)
	}
	if len(days) == 0 {
		c.app.printf("No time tracked on %s.\n", date)
		return nil
	}

	c.app.printf("Tasks for %s\n", date)
	c.app.println(strings.Repeat("=", 14+len(date)))
	c.app.printf("%-40s %-10s %s\n", "Task", "Time", "Entries")
	c.app.println(strings.Repeat("-", 60))

	var total int64
	for _, day := range days {
		c.app.printf("%-40s %-10s %s\n", day.Name, domain.FormatHMS(day.Seconds), humanize.Comma(int64(day.Entries)))
		total += day.Seconds
	}

	c.app.println(strings.Repeat("-", 60))
	c.app.printf("%-40s %s\n", "Total", domain.FormatHMS(total))
	return nil
}
