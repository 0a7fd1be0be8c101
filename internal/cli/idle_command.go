package cli

import (
	"context"
	"strconv"
	"strings"

	"task-timer/internal/api"
	"task-timer/internal/errors"
	"task-timer/internal/idle"
)

// IdleCommand handles the idle command. Changes are written back to the
// config file by the tracker.
type IdleCommand struct {
	app *App
}

// NewIdleCommand creates a new idle command handler
func NewIdleCommand(app *App) *IdleCommand {
	return &IdleCommand{app: app}
}

// Execute accepts on, off or a whole number of minutes. Without arguments
// it prints the current setting.
func (c *IdleCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.NewInvalidInputError("arguments", strings.Join(args, " "), "usage: tm idle [on|off|<minutes>]")
	}

	var (
		status idle.Status
		err    error
	)
	switch {
	case len(args) == 0:
		var overview *api.Overview
		overview, err = c.app.api.Overview(ctx)
		if err == nil {
			status = overview.Idle
		}
	case strings.EqualFold(args[0], "on"):
		status, err = c.app.api.SetIdleEnabled(ctx, true)
	case strings.EqualFold(args[0], "off"):
		status, err = c.app.api.SetIdleEnabled(ctx, false)
	default:
		status, err = c.app.api.SetIdleTimeout(ctx, args[0])
	}
	if err != nil {
		return c.app.errors.Handle("change idle detection", err)
	}

	c.app.println(describeIdle(status))
	return nil
}

func describeIdle(status idle.Status) string {
	minutes := int(status.Threshold.Minutes())
	unit := "minutes"
	if minutes == 1 {
		unit = "minute"
	}
	switch {
	case !status.Enabled:
		return "Idle detection is off."
	case status.Degraded:
		return "Idle detection is on but unavailable: " + status.Reason
	}
	return "Idle detection is on. Running tasks pause after " + strconv.Itoa(minutes) + " " + unit + " without activity."
}
