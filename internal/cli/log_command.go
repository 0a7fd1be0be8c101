package cli

import (
	"context"
	"strings"

	"task-timer/internal/domain"
	"task-timer/internal/errors"
	"task-timer/internal/services"
)

// LogCommand handles the log command, which lists daily task totals
type LogCommand struct {
	app *App
	// Sort is one of date, name or duration.
	Sort string
	// Corrections limits the listing to days that carry corrections.
	Corrections bool
}

// NewLogCommand creates a new log command handler
func NewLogCommand(app *App) *LogCommand {
	return &LogCommand{app: app}
}

// Execute runs the log command. An optional leading time shorthand such as
// 2w limits the range; remaining arguments filter task names.
func (c *LogCommand) Execute(ctx context.Context, args []string) error {
	order, err := parseSortOrder(c.Sort)
	if err != nil {
		return err
	}

	criteria := services.SearchCriteria{CorrectionsOnly: c.Corrections}
	if len(args) > 0 {
		if duration, err := parseTimeShorthand(args[0]); err == nil {
			now := timeNow()
			criteria.From = domain.DateOf(now.Add(-duration))
			criteria.To = domain.DateOf(now)
			args = args[1:]
		}
	}
	if len(args) > 0 {
		criteria.Name = strings.Join(args, " ")
	}

	days, err := c.app.api.History(ctx, criteria, order)
	if err != nil {
		return c.app.errors.Handle("load history", err)
	}
	return c.printDays(days)
}

func (c *LogCommand) printDays(days []*services.TaskDay) error {
	if len(days) == 0 {
		c.app.println("No tasks found")
		return nil
	}

	var total int64
	for _, day := range days {
		line := day.Date + "  " + domain.FormatHMS(day.Seconds) + "  " + day.Name
		switch {
		case day.Corrections < 0:
			line += " (corrected -" + domain.FormatHMS(-day.Corrections) + ")"
		case day.Corrections > 0:
			line += " (corrected +" + domain.FormatHMS(day.Corrections) + ")"
		}
		c.app.println(line)
		total += day.Seconds
	}
	c.app.printf("Total Time: %s\n", domain.FormatHMS(total))
	return nil
}

func parseSortOrder(s string) (services.SortOrder, error) {
	switch services.SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", services.SortByDate:
		return services.SortByDate, nil
	case services.SortByName:
		return services.SortByName, nil
	case services.SortByDuration:
		return services.SortByDuration, nil
	}
	return "", errors.NewInvalidInputError("sort", s, "must be one of date, name, duration")
}
