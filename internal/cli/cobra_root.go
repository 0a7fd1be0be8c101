package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"task-timer/internal/api"
	"task-timer/internal/config"
	"task-timer/internal/tui"
)

// annotationSession marks commands that run without a tracker session.
const annotationSession = "session"

// UIRunner shows the interactive window.
type UIRunner func(ctx context.Context, tracker api.API, opts tui.Options) error

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd       *cobra.Command
	app       *App
	loader    *config.Loader
	config    *config.Config
	overrides config.ConfigOverrides

	openSession SessionFactory
	runUI       UIRunner
	session     *Session
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(loader *config.Loader, out io.Writer) *RootCommand {
	root := &RootCommand{
		app:         NewApp(nil, nil, out),
		loader:      loader,
		openSession: OpenSession,
		runUI:       tui.Run,
	}

	root.cmd = &cobra.Command{
		Use:   "tm",
		Short: "A task timer with idle detection and monthly reports",
		Long: `Task Timer (tm) tracks time spent on named tasks for the current day.

Running tm without a command opens the timer window, where tasks are added,
started and paused. Totals are saved to a local SQLite ledger every minute and
on exit. When no keyboard or mouse activity is seen for the idle timeout, every
running task is paused.

EXAMPLES:
  tm                                       # Open the timer window
  tm report 03 2025                        # Report for March 2025 (xlsx)
  tm report --format csv                   # Report for this month as CSV
  tm correct "Writing" --minutes 15        # Remove 15 minutes from today
  tm set "Writing" 01:30:00                # Set today's total
  tm tasks 2025-03-14                      # Totals for a day
  tm log 2w "review" --sort duration       # Daily totals from the last two weeks
  tm idle 20                               # Pause after 20 idle minutes
  tm config init                           # Write ~/.tm/config.yaml

CONFIGURATION:
  Priority order: command-line flags > environment variables > config file > defaults

    TM_DB_DIR, TM_DB_FILENAME              Ledger location (default: ~/.tm/tasks.db)
    TM_DB_BUSY_TIMEOUT                     Wait for a locked database (default: 10s)
    TM_IDLE_ENABLED                        Idle detection (default: true)
    TM_IDLE_TIMEOUT_MINUTES                Idle timeout (default: 30)
    TM_LEDGER_SNAPSHOT_INTERVAL            Save interval (default: 1m)
    TM_REPORTS_DIR, TM_REPORTS_FORMAT      Report output (default: reports, xlsx)
    TM_APP_TIMEOUT, TM_APP_VERBOSE         Command timeout and debug logging
    TM_APP_LOG_FILE                        Log file (default: ~/.tm/tm.log)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.showUI(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// WithSessionFactory replaces how sessions are opened
func (r *RootCommand) WithSessionFactory(factory SessionFactory) *RootCommand {
	r.openSession = factory
	return r
}

// WithUI replaces the interactive window
func (r *RootCommand) WithUI(runner UIRunner) *RootCommand {
	r.runUI = runner
	return r
}

// SetArgs sets the arguments used instead of os.Args
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Execute runs the root command and always shuts the session down, which
// saves every running task
func (r *RootCommand) Execute(ctx context.Context) error {
	eh := r.app.errors
	cmd, err := r.cmd.ExecuteContextC(ctx)
	if r.session != nil {
		if err != nil {
			r.session.Logger.Error("command failed", "command", cmd.Name(), "code", eh.GetErrorCode(err), "error", err)
		}
		if closeErr := r.session.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		r.session = nil
	}
	if err == nil {
		return nil
	}

	var hint string
	switch {
	case eh.IsValidationError(err) && cmd != nil:
		hint = "usage: " + cmd.UseLine()
	case eh.IsDatabaseError(err) && r.config != nil:
		hint = "database: " + r.config.GetDatabasePath()
	}
	err = eh.HandleSimple(err)
	if hint != "" {
		return fmt.Errorf("%w\n%s", err, hint)
	}
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("db-dir", "", "Database directory (overrides TM_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TM_DB_FILENAME)")
	flags.Bool("idle", true, "Enable idle detection (overrides TM_IDLE_ENABLED)")
	flags.Int("idle-timeout", 0, "Idle timeout in minutes (overrides TM_IDLE_TIMEOUT_MINUTES)")
	flags.Duration("snapshot-interval", 0, "How often running totals are saved (overrides TM_LEDGER_SNAPSHOT_INTERVAL)")
	flags.String("reports-dir", "", "Directory for exported reports (overrides TM_REPORTS_DIR)")
	flags.String("reports-format", "", "Default report format, xlsx or csv (overrides TM_REPORTS_FORMAT)")
	flags.Duration("app-timeout", 0, "Command timeout (overrides TM_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable debug logging (overrides TM_APP_VERBOSE)")
	flags.String("log-file", "", "Log file path (overrides TM_APP_LOG_FILE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	uiCmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the timer window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.showUI(cmd)
		},
	}

	report := NewReportCommand(r.app)
	reportCmd := &cobra.Command{
		Use:   "report [month] [year]",
		Short: "Export a monthly report",
		Long: `Export the per-task totals for a month and print them.

The month defaults to the current one. The report is written to the reports
directory as report_YYYY_MM_<id>.xlsx (or .csv).`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "report", args)
		},
	}
	reportCmd.Flags().StringVar(&report.Format, "format", "", "Report format, xlsx or csv")
	r.app.registry.Register("report", report)

	correct := NewCorrectCommand(r.app)
	correctCmd := &cobra.Command{
		Use:   "correct <task>",
		Short: "Remove time from a task",
		Long: `Remove time from a task on a day. The removal is recorded as a correction;
earlier entries are never changed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "correct", args)
		},
	}
	correctCmd.Flags().StringVar(&correct.Hours, "hours", "", "Hours to remove")
	correctCmd.Flags().StringVar(&correct.Minutes, "minutes", "", "Minutes to remove")
	correctCmd.Flags().StringVar(&correct.Seconds, "seconds", "", "Seconds to remove")
	correctCmd.Flags().StringVar(&correct.Date, "date", "", "Day to correct, YYYY-MM-DD (default today)")
	r.app.registry.Register("correct", correct)

	tasksCmd := &cobra.Command{
		Use:   "tasks [date]",
		Short: "Show task totals for a day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "tasks", args)
		},
	}

	logCommand := NewLogCommand(r.app)
	logCmd := &cobra.Command{
		Use:   "log [time] [text]",
		Short: "List daily task totals",
		Long: `List daily task totals with optional filtering.

Time filters support: 30m, 2h, 1d, 2w, 3mo, 1y
Text filters search within task names (case-insensitive partial matching)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "log", args)
		},
	}
	logCmd.Flags().StringVar(&logCommand.Sort, "sort", "date", "Sort by date, name or duration")
	logCmd.Flags().BoolVar(&logCommand.Corrections, "corrections", false, "Only show days with corrections")
	r.app.registry.Register("log", logCommand)

	setCmd := &cobra.Command{
		Use:   "set <task> <hh:mm:ss>",
		Short: "Set today's total for a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "set", args)
		},
	}

	idleCmd := &cobra.Command{
		Use:   "idle [on|off|minutes]",
		Short: "Show or change idle detection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "idle", args)
		},
	}

	r.cmd.AddCommand(
		uiCmd,
		reportCmd,
		correctCmd,
		tasksCmd,
		logCmd,
		setCmd,
		idleCmd,
		r.configCommand(),
	)
}

func (r *RootCommand) configCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage the configuration file",
		Annotations: map[string]string{annotationSession: "none"},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSession: "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := r.loader.Path()
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			r.app.printf("Wrote default configuration to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:         "path",
		Short:       "Print the configuration file location",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSession: "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			r.app.println(r.loader.Path())
			return nil
		},
	}

	configCmd.AddCommand(initCmd, pathCmd)
	return configCmd
}

// prepare loads the configuration with flag overrides and, unless the
// command says otherwise, starts a tracker session
func (r *RootCommand) prepare(cmd *cobra.Command) error {
	r.getOverridesFromFlags(cmd)

	cfg, err := r.loader.LoadWithOverrides(&r.overrides)
	if err != nil {
		return err
	}
	r.config = cfg
	r.app.config = cfg

	if cmd.Annotations[annotationSession] == "none" {
		return nil
	}

	session, err := r.openSession(cfg, r.loader.Path())
	if err != nil {
		return err
	}
	r.session = session
	r.app.Attach(session.API)
	return nil
}

func (r *RootCommand) run(cmd *cobra.Command, name string, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
	defer cancel()
	return r.app.Run(ctx, name, args)
}

func (r *RootCommand) showUI(cmd *cobra.Command) error {
	if r.session == nil {
		return fmt.Errorf("no tracker session is running")
	}
	return r.runUI(cmd.Context(), r.session.API, tui.Options{Timeout: r.getAppTimeout()})
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// getOverridesFromFlags records the flags the user actually set
func (r *RootCommand) getOverridesFromFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	o := config.ConfigOverrides{}

	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		o.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		o.DBFilename = &v
	}
	if flags.Changed("idle") {
		v, _ := flags.GetBool("idle")
		o.IdleEnabled = &v
	}
	if flags.Changed("idle-timeout") {
		v, _ := flags.GetInt("idle-timeout")
		o.IdleTimeoutMinutes = &v
	}
	if flags.Changed("snapshot-interval") {
		v, _ := flags.GetDuration("snapshot-interval")
		o.SnapshotInterval = &v
	}
	if flags.Changed("reports-dir") {
		v, _ := flags.GetString("reports-dir")
		o.ReportsDir = &v
	}
	if flags.Changed("reports-format") {
		v, _ := flags.GetString("reports-format")
		o.ReportsFormat = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		o.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}
	if flags.Changed("log-file") {
		v, _ := flags.GetString("log-file")
		o.LogFile = &v
	}

	r.overrides = o
}
