package cli

import (
	"context"
	"strings"

	"task-timer/internal/errors"
)

// SetCommand handles the set command, which overrides today's total for
// a task
type SetCommand struct {
	app *App
}

// NewSetCommand creates a new set command handler
func NewSetCommand(app *App) *SetCommand {
	return &SetCommand{app: app}
}

// Execute runs the set command. The last argument is the hh:mm:ss total and
// everything before it is the task name.
func (c *SetCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.NewInvalidInputError("arguments", strings.Join(args, " "), "usage: tm set <task> hh:mm:ss")
	}

	name := strings.Join(args[:len(args)-1], " ")
	hms := args[len(args)-1]

	task, err := c.app.api.AddTask(ctx, name)
	if err != nil {
		return c.app.errors.Handle("add task", err)
	}
	task, err = c.app.api.SetManualTime(ctx, task.Name, hms)
	if err != nil {
		return c.app.errors.Handle("set task time", err)
	}

	c.app.printf("Set '%s' to %s for today.\n", task.Name, task.Time())
	return nil
}
