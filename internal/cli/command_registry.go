package cli

import (
	"context"
	"sort"
	"strings"

	"task-timer/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a registry holding every command with its
// default options
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]Command),
	}

	registry.Register("report", NewReportCommand(app))
	registry.Register("correct", NewCorrectCommand(app))
	registry.Register("tasks", NewTasksCommand(app))
	registry.Register("log", NewLogCommand(app))
	registry.Register("set", NewSetCommand(app))
	registry.Register("idle", NewIdleCommand(app))

	return registry
}

// Register adds a command to the registry, replacing any command already
// registered under name
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

// Lookup returns the command registered under name
func (r *CommandRegistry) Lookup(name string) (Command, bool) {
	command, ok := r.commands[name]
	return command, ok
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	return command.Execute(ctx, args)
}

// GetUsage returns the usage string for the CLI
func (r *CommandRegistry) GetUsage() string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, "tm "+name)
	}
	sort.Strings(names)
	return "usage: tm (opens the timer window) or " + strings.Join(names, " or ")
}
