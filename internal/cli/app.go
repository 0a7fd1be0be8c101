package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"

	"task-timer/internal/api"
	"task-timer/internal/config"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App represents the command line application. The api field is attached
// once a session is running, so commands read it at execution time.
type App struct {
	api      api.API
	config   *config.Config
	out      io.Writer
	registry *CommandRegistry
	errors   *ErrorHandler
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(apiInstance api.API, cfg *config.Config, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if out == nil {
		out = os.Stdout
	}
	app := &App{
		api:    apiInstance,
		config: cfg,
		out:    out,
		errors: NewErrorHandler(),
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// Attach sets the API the commands talk to
func (a *App) Attach(apiInstance api.API) {
	a.api = apiInstance
}

// Run executes the named command with the given arguments
func (a *App) Run(ctx context.Context, name string, args []string) error {
	if name == "" {
		return fmt.Errorf("%s", a.registry.GetUsage())
	}
	if a.api == nil {
		return fmt.Errorf("no tracker session is running")
	}
	return a.registry.Execute(ctx, name, args)
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...interface{}) {
	fmt.Fprintln(a.out, args...)
}

// parseTimeShorthand parses time shorthand like "30m", "2h", "1d", etc.
func parseTimeShorthand(shorthand string) (time.Duration, error) {
	re := regexp.MustCompile(`^(\d+)(m|h|d|w|mo|y)$`)
	matches := re.FindStringSubmatch(shorthand)
	if matches == nil {
		return 0, fmt.Errorf("invalid time format: %s", shorthand)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number in time format: %s", shorthand)
	}

	unit := matches[2]
	var duration time.Duration

	switch unit {
	case "m":
		duration = time.Duration(value) * time.Minute
	case "h":
		duration = time.Duration(value) * time.Hour
	case "d":
		duration = time.Duration(value) * 24 * time.Hour
	case "w":
		duration = time.Duration(value) * 7 * 24 * time.Hour
	case "mo":
		duration = time.Duration(value) * 30 * 24 * time.Hour
	case "y":
		duration = time.Duration(value) * 365 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid time unit: %s", unit)
	}

	return duration, nil
}
