package cli

import (
	"context"
	"strings"

	"task-timer/internal/api"
	"task-timer/internal/domain"
)

// CorrectCommand handles the correct command, which removes time from a
// task on a given day
type CorrectCommand struct {
	app     *App
	Hours   string
	Minutes string
	Seconds string
	// Date is YYYY-MM-DD; empty means today.
	Date string
}

// NewCorrectCommand creates a new correct command handler
func NewCorrectCommand(app *App) *CorrectCommand {
	return &CorrectCommand{app: app}
}

// Execute runs the correct command. All arguments form the task name.
func (c *CorrectCommand) Execute(ctx context.Context, args []string) error {
	date := c.Date
	if date == "" {
		date = domain.DateOf(timeNow())
	}

	result, err := c.app.api.AddCorrection(ctx, api.CorrectionRequest{
		Task:    strings.TrimSpace(strings.Join(args, " ")),
		Hours:   c.Hours,
		Minutes: c.Minutes,
		Seconds: c.Seconds,
		Date:    date,
	})
	if err != nil {
		if c.app.errors.IsNotFoundError(err) {
			c.printKnownTasks(ctx)
		}
		return c.app.errors.Handle("apply correction", err)
	}

	c.app.println(result.Message)
	if result.Refreshed != nil {
		c.app.printf("'%s' now shows %s for today.\n", result.Refreshed.Name, result.Refreshed.Time())
	}
	return nil
}

// printKnownTasks lists the names a correction can be applied to.
func (c *CorrectCommand) printKnownTasks(ctx context.Context) {
	names, err := c.app.api.TaskNames(ctx)
	if err != nil || len(names) == 0 {
		return
	}
	c.app.printf("Known tasks: %s\n", strings.Join(names, ", "))
}
