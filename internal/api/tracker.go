package api

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"task-timer/internal/clock"
	"task-timer/internal/config"
	"task-timer/internal/domain"
	apperrors "task-timer/internal/errors"
	"task-timer/internal/idle"
	"task-timer/internal/logging"
	"task-timer/internal/services"
	"task-timer/internal/validation"
)

// ErrStopped is returned by calls made after the loop has exited.
var ErrStopped = errors.New("tracker is not running")

// tickPeriod is the loop's fixed tick.
const tickPeriod = time.Second

// Options configures a Tracker. Zero values fall back to defaults.
type Options struct {
	Clock            clock.Clock
	Source           idle.ActivitySource
	Logger           *slog.Logger
	Validator        *validation.Validator
	SnapshotInterval time.Duration
	StoreTimeout     time.Duration
	IdleEnabled      bool
	IdleThreshold    time.Duration
	ReportsDir       string
	ReportFormat     string
	// RestoreToday loads the tasks that already have entries for today
	// when the loop starts.
	RestoreToday bool
	// OnIdleSettingsChanged persists idle settings changed by the user.
	OnIdleSettingsChanged func(enabled bool, minutes int) error
}

// OptionsFromConfig maps the application configuration onto Options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SnapshotInterval: cfg.Ledger.SnapshotInterval,
		StoreTimeout:     cfg.GetWriteTimeout(),
		IdleEnabled:      cfg.Idle.Enabled,
		IdleThreshold:    cfg.IdleThreshold(),
		ReportsDir:       cfg.Reports.Dir,
		ReportFormat:     cfg.Reports.DefaultFormat,
		RestoreToday:     true,
	}
}

type command struct {
	fn   func() error
	done chan error
}

// Tracker is the application controller. Fields below the channels are
// only touched from the Run goroutine.
type Tracker struct {
	ledger    services.LedgerService
	tasksSvc  services.TaskService
	search    services.SearchService
	reporting services.ReportingService

	clock          clock.Clock
	source         idle.ActivitySource
	logger         *slog.Logger
	input          *validation.InputValidator
	taskValidator  *validation.TaskValidator
	opts           Options
	idleSettingsFn func(bool, int) error

	cmds    chan command
	stopped chan struct{}
	started atomic.Bool

	tasks        map[string]*domain.Task
	order        []string
	today        string
	monitor      *idle.Monitor
	lastSnapshot time.Time
	lastTick     time.Time
	lastSaved    time.Time
	lastErr      error
	pending      []services.Snapshot
}

// New creates a Tracker over the given services
func New(svc *services.ServiceContainer, opts Options) *Tracker {
	if opts.Clock == nil {
		opts.Clock = clock.System()
	}
	if opts.Source == nil {
		opts.Source = idle.Unavailable()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Validator == nil {
		opts.Validator = validation.NewValidator()
	}
	if opts.SnapshotInterval <= 0 {
		opts.SnapshotInterval = time.Minute
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 5 * time.Second
	}
	if opts.IdleThreshold <= 0 {
		opts.IdleThreshold = idle.DefaultThreshold
	}
	if opts.ReportsDir == "" {
		opts.ReportsDir = "reports"
	}

	return &Tracker{
		ledger:         svc.LedgerService,
		tasksSvc:       svc.TaskService,
		search:         svc.SearchService,
		reporting:      svc.ReportingService,
		clock:          opts.Clock,
		source:         opts.Source,
		logger:         opts.Logger,
		input:          validation.NewInputValidator(opts.Validator),
		taskValidator:  validation.NewTaskValidatorWithValidator(opts.Validator),
		opts:           opts,
		idleSettingsFn: opts.OnIdleSettingsChanged,
		cmds:           make(chan command),
		stopped:        make(chan struct{}),
		tasks:          make(map[string]*domain.Task),
		monitor:        idle.NewMonitor(opts.IdleEnabled, opts.IdleThreshold),
	}
}

// Run drives the event loop. It returns after ctx is done and every
// running task has been paused and flushed.
func (t *Tracker) Run(ctx context.Context) error {
	if !t.started.CompareAndSwap(false, true) {
		return errors.New("tracker already started")
	}
	defer close(t.stopped)

	now := t.clock.Now()
	t.today = domain.DateOf(now)
	t.lastSnapshot = now
	t.lastTick = now
	if t.opts.RestoreToday {
		if err := t.restore(); err != nil {
			t.logger.Error("failed to restore today's tasks", "date", t.today, "error", err)
			t.lastErr = err
		}
	}

	ticker := t.clock.NewTicker(tickPeriod)
	defer ticker.Stop()

	activity := make(chan struct{})
	sourceErr := make(chan error, 1)
	go t.watchActivity(ctx, activity, sourceErr)

	t.logger.Info("tracker started", "date", t.today, "idle_enabled", t.opts.IdleEnabled, "idle_threshold", t.opts.IdleThreshold)

	for {
		select {
		case <-ctx.Done():
			return t.shutdown()
		case cmd := <-t.cmds:
			cmd.done <- cmd.fn()
		case now := <-ticker.C():
			t.tick(now)
		case <-activity:
			t.monitor.Reset()
		case err := <-sourceErr:
			t.monitor.Degrade(err)
			t.logger.Warn("idle detection unavailable, user is always considered active", "error", err)
		}
	}
}

// watchActivity runs the input listener. It only posts events to the loop.
func (t *Tracker) watchActivity(ctx context.Context, activity chan<- struct{}, sourceErr chan<- error) {
	err := t.source.Watch(ctx, func() {
		select {
		case activity <- struct{}{}:
		case <-ctx.Done():
		}
	})
	if err != nil && ctx.Err() == nil {
		sourceErr <- err
	}
}

// do runs fn on the loop and waits for its result.
func (t *Tracker) do(ctx context.Context, fn func() error) error {
	cmd := command{fn: fn, done: make(chan error, 1)}
	select {
	case t.cmds <- cmd:
	case <-t.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// storeContext bounds a single store call. Calls made during shutdown
// still get a full timeout.
func (t *Tracker) storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), t.opts.StoreTimeout)
}

// now returns the clock time, rolling the tracker over to a new day first
// when midnight has passed.
func (t *Tracker) now() time.Time {
	now := t.clock.Now()
	if domain.DateOf(now) != t.today {
		t.rollover(now)
	}
	return now
}

func (t *Tracker) tick(now time.Time) {
	if domain.DateOf(now) != t.today {
		t.rollover(now)
	}

	if now.Sub(t.lastSnapshot) >= t.opts.SnapshotInterval {
		t.lastSnapshot = now
		if err := t.flushAll(now); err != nil {
			t.logger.Error("periodic snapshot failed", "error", err)
		}
	}

	if t.monitor.Advance(t.sinceLastTick(now)) {
		paused, err := t.pauseAll(now)
		t.logger.Info("idle threshold reached, paused running tasks", "paused", len(paused))
		if err != nil {
			t.logger.Error("idle pause could not be persisted", "error", err)
		}
	}
}

// sinceLastTick returns the whole seconds elapsed since the previous tick,
// so ticks the ticker dropped while the loop was busy still count.
func (t *Tracker) sinceLastTick(now time.Time) time.Duration {
	elapsed := now.Sub(t.lastTick).Truncate(tickPeriod)
	if elapsed < 0 {
		t.lastTick = now
		return 0
	}
	t.lastTick = t.lastTick.Add(elapsed)
	return elapsed
}

func (t *Tracker) restore() error {
	ctx, cancel := t.storeContext()
	defer cancel()

	days, err := t.tasksSvc.DaySummary(ctx, t.today)
	if err != nil {
		return err
	}
	for _, day := range days {
		t.load(day.Name, day.Seconds)
	}
	return nil
}

// load registers a task whose persisted total for today is seconds.
func (t *Tracker) load(name string, seconds int64) *domain.Task {
	task := domain.NewTask(name, time.Duration(seconds)*time.Second)
	t.tasks[name] = task
	t.order = append(t.order, name)
	t.ledger.Seed(name, t.today, seconds)
	return task
}

func (t *Tracker) lookup(name string) (*domain.Task, error) {
	if err := t.input.RequireSelection("task", name); err != nil {
		return nil, err
	}
	task, ok := t.tasks[name]
	if !ok {
		return nil, apperrors.NewNotFoundError("task", name)
	}
	return task, nil
}

func (t *Tracker) view(task *domain.Task, now time.Time) TaskView {
	return TaskView{
		Name:    task.Name(),
		State:   task.State(),
		Action:  task.ActionLabel(),
		Seconds: task.ElapsedSeconds(now),
	}
}

func (t *Tracker) views(now time.Time) []TaskView {
	views := make([]TaskView, 0, len(t.order))
	for _, name := range t.order {
		views = append(views, t.view(t.tasks[name], now))
	}
	return views
}

// snapshot persists whatever part of task's total is not yet stored.
func (t *Tracker) snapshot(task *domain.Task, now time.Time, start, end *time.Time) error {
	status := domain.StatusPaused
	if task.IsRunning() {
		status = domain.StatusRunning
	}
	return t.record(services.Snapshot{
		Name:   task.Name(),
		Date:   t.today,
		Total:  task.ElapsedSeconds(now),
		Status: status,
		Start:  start,
		End:    end,
	})
}

func (t *Tracker) record(s services.Snapshot) error {
	ctx, cancel := t.storeContext()
	defer cancel()

	if _, err := t.ledger.RecordSnapshot(ctx, s); err != nil {
		t.lastErr = err
		return err
	}
	t.lastSaved = t.clock.Now()
	t.lastErr = nil
	return nil
}

// flushAll writes every task's unpersisted time, retrying earlier failures.
func (t *Tracker) flushAll(now time.Time) error {
	var errs []error

	pending := t.pending
	t.pending = nil
	for _, s := range pending {
		if err := t.record(s); err != nil {
			t.pending = append(t.pending, s)
			errs = append(errs, err)
			continue
		}
		if s.Date != t.today {
			t.forgetDay(s.Date)
		}
	}

	for _, name := range t.order {
		if err := t.snapshot(t.tasks[name], now, nil, nil); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// pauseTask is the single pause path for user, bulk and idle pauses.
func (t *Tracker) pauseTask(task *domain.Task, now time.Time) (bool, error) {
	start, _ := task.SessionStart()
	if !task.Pause(now) {
		return false, nil
	}
	t.logger.Debug("task paused", "task", task.Name(), "total", task.ElapsedSeconds(now))

	end := now
	return true, t.snapshot(task, now, &start, &end)
}

func (t *Tracker) pauseAll(now time.Time) ([]TaskView, error) {
	var errs []error
	paused := make([]TaskView, 0)
	for _, name := range t.order {
		task := t.tasks[name]
		ok, err := t.pauseTask(task, now)
		if err != nil {
			errs = append(errs, err)
		}
		if ok {
			paused = append(paused, t.view(task, now))
		}
	}
	return paused, errors.Join(errs...)
}

// shutdown pauses and flushes everything before Run returns.
func (t *Tracker) shutdown() error {
	now := t.clock.Now()
	if domain.DateOf(now) != t.today {
		t.rollover(now)
	}

	_, pauseErr := t.pauseAll(now)
	flushErr := t.flushAll(now)
	err := errors.Join(pauseErr, flushErr)
	if err != nil {
		t.logger.Error("shutdown flush incomplete", "error", err, "pending", len(t.pending))
	} else {
		t.logger.Info("tracker stopped", "tasks", len(t.order))
	}
	return err
}

// AddTask loads or creates the task for today
func (t *Tracker) AddTask(ctx context.Context, name string) (TaskView, error) {
	var view TaskView
	err := t.do(ctx, func() error {
		cleaned, err := t.taskValidator.GetValidTaskName(name)
		if err != nil {
			return validation.ToAppError(err)
		}
		now := t.now()
		if task, ok := t.tasks[cleaned]; ok {
			view = t.view(task, now)
			return nil
		}

		sctx, cancel := t.storeContext()
		defer cancel()
		if _, err := t.ledger.RecordCreation(sctx, cleaned, t.today); err != nil {
			return err
		}
		total, err := t.ledger.TotalFor(sctx, cleaned, t.today)
		if err != nil {
			return err
		}

		view = t.view(t.load(cleaned, total), now)
		t.logger.Info("task added", "task", cleaned, "date", t.today, "total", total)
		return nil
	})
	return view, err
}

// Toggle pauses a running task and starts a paused one
func (t *Tracker) Toggle(ctx context.Context, name string) (TaskView, error) {
	var view TaskView
	err := t.do(ctx, func() error {
		task, err := t.lookup(name)
		if err != nil {
			return err
		}
		now := t.now()
		if task.IsRunning() {
			_, err = t.pauseTask(task, now)
		} else {
			task.Start(now)
			t.logger.Debug("task started", "task", name)
		}
		view = t.view(task, now)
		return err
	})
	return view, err
}

// Start begins a session; starting a running task is a no-op
func (t *Tracker) Start(ctx context.Context, name string) (TaskView, error) {
	var view TaskView
	err := t.do(ctx, func() error {
		task, err := t.lookup(name)
		if err != nil {
			return err
		}
		now := t.now()
		if task.Start(now) {
			t.logger.Debug("task started", "task", name)
		}
		view = t.view(task, now)
		return nil
	})
	return view, err
}

// Pause ends a session; pausing a paused task is a no-op
func (t *Tracker) Pause(ctx context.Context, name string) (TaskView, error) {
	var view TaskView
	err := t.do(ctx, func() error {
		task, err := t.lookup(name)
		if err != nil {
			return err
		}
		now := t.now()
		_, err = t.pauseTask(task, now)
		view = t.view(task, now)
		return err
	})
	return view, err
}

// PauseAll pauses every running task
func (t *Tracker) PauseAll(ctx context.Context) ([]TaskView, error) {
	var paused []TaskView
	err := t.do(ctx, func() error {
		var err error
		paused, err = t.pauseAll(t.now())
		return err
	})
	return paused, err
}

// SetManualTime sets today's total for a task. A running task keeps
// running from the new total. The change is stored as a correction so the
// day's sum equals the entered time.
func (t *Tracker) SetManualTime(ctx context.Context, name, hms string) (TaskView, error) {
	var view TaskView
	err := t.do(ctx, func() error {
		task, err := t.lookup(name)
		if err != nil {
			return err
		}
		d, err := t.input.ParseManualTime(hms)
		if err != nil {
			return validation.ToAppError(err)
		}

		now := t.now()
		if err := t.snapshot(task, now, nil, nil); err != nil {
			return err
		}

		sctx, cancel := t.storeContext()
		defer cancel()
		stored, err := t.ledger.TotalFor(sctx, name, t.today)
		if err != nil {
			return err
		}
		target := domain.FloorSeconds(d)
		if delta := target - stored; delta != 0 {
			if err := t.ledger.RecordCorrection(sctx, name, t.today, delta); err != nil {
				return err
			}
		}

		task.Rebase(now)
		task.SetManualTime(time.Duration(target) * time.Second)
		t.ledger.Seed(name, t.today, target)
		view = t.view(task, now)
		t.logger.Info("task time set", "task", name, "total", target)
		return nil
	})
	return view, err
}

// AddCorrection removes time from a task on a day. When the day is today
// and the task is loaded, its total is refreshed from the ledger.
func (t *Tracker) AddCorrection(ctx context.Context, req CorrectionRequest) (*CorrectionResult, error) {
	var result *CorrectionResult
	err := t.do(ctx, func() error {
		if err := t.input.RequireSelection("task", req.Task); err != nil {
			return err
		}
		if err := t.input.RequireSelection("date", req.Date); err != nil {
			return err
		}
		date, err := t.input.ParseDate(req.Date)
		if err != nil {
			return validation.ToAppError(err)
		}
		amount, err := t.input.ParseCorrection(req.Hours, req.Minutes, req.Seconds)
		if err != nil {
			return validation.ToAppError(err)
		}
		removed := domain.FloorSeconds(amount)

		sctx, cancel := t.storeContext()
		defer cancel()
		task, loaded := t.tasks[req.Task]
		if !loaded {
			known, err := t.isKnownTask(sctx, req.Task)
			if err != nil {
				return err
			}
			if !known {
				return apperrors.NewNotFoundError("task", req.Task)
			}
		}

		now := t.now()
		live := loaded && date == t.today
		if live {
			if err := t.snapshot(task, now, nil, nil); err != nil {
				return err
			}
		}

		if err := t.ledger.RecordCorrection(sctx, req.Task, date, -removed); err != nil {
			return err
		}

		result = &CorrectionResult{
			Task:    req.Task,
			Date:    date,
			Removed: removed,
			Message: "Removed " + domain.FormatHMS(removed) + " from '" + req.Task + "' on " + date + ".",
		}

		if live {
			total, err := t.ledger.TotalFor(sctx, req.Task, date)
			if err != nil {
				return err
			}
			task.Rebase(now)
			task.SetManualTime(time.Duration(total) * time.Second)
			t.ledger.Seed(req.Task, date, total)
			v := t.view(task, now)
			result.Refreshed = &v
		}
		return nil
	})
	return result, err
}

// SetIdleEnabled turns idle detection on or off
func (t *Tracker) SetIdleEnabled(ctx context.Context, enabled bool) (idle.Status, error) {
	var status idle.Status
	err := t.do(ctx, func() error {
		t.monitor.SetEnabled(enabled)
		status = t.monitor.Status()
		t.logger.Info("idle detection toggled", "enabled", enabled)
		return t.persistIdleSettings(status)
	})
	return status, err
}

// SetIdleTimeout changes the idle threshold
func (t *Tracker) SetIdleTimeout(ctx context.Context, minutes string) (idle.Status, error) {
	var status idle.Status
	err := t.do(ctx, func() error {
		m, err := t.input.ParseIdleMinutes(minutes)
		if err != nil {
			return validation.ToAppError(err)
		}
		t.monitor.SetThreshold(time.Duration(m) * time.Minute)
		status = t.monitor.Status()
		t.logger.Info("idle timeout changed", "minutes", m)
		return t.persistIdleSettings(status)
	})
	return status, err
}

func (t *Tracker) persistIdleSettings(status idle.Status) error {
	if t.idleSettingsFn == nil {
		return nil
	}
	minutes := int(status.Threshold / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	if err := t.idleSettingsFn(status.Enabled, minutes); err != nil {
		t.logger.Warn("idle settings not saved", "error", err)
		return err
	}
	return nil
}

// Tasks returns every loaded task in the order they were added
func (t *Tracker) Tasks(ctx context.Context) ([]TaskView, error) {
	var views []TaskView
	err := t.do(ctx, func() error {
		views = t.views(t.now())
		return nil
	})
	return views, err
}

// Overview returns the tasks and status for one screen refresh
func (t *Tracker) Overview(ctx context.Context) (*Overview, error) {
	var overview *Overview
	err := t.do(ctx, func() error {
		now := t.now()
		overview = &Overview{
			Header:    Header(now),
			Today:     t.today,
			Tasks:     t.views(now),
			Idle:      t.monitor.Status(),
			LastSaved: t.lastSaved,
		}
		if t.lastErr != nil {
			overview.LastError = apperrors.GetUserMessage(t.lastErr)
		}
		return nil
	})
	return overview, err
}

// isKnownTask reports whether the ledger has any row for name.
func (t *Tracker) isKnownTask(ctx context.Context, name string) (bool, error) {
	known, err := t.tasksSvc.KnownTasks(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range known {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// TaskNames returns every known task name, loaded or persisted
func (t *Tracker) TaskNames(ctx context.Context) ([]string, error) {
	var names []string
	err := t.do(ctx, func() error {
		sctx, cancel := t.storeContext()
		defer cancel()
		known, err := t.tasksSvc.KnownTasks(sctx)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(known))
		for _, n := range known {
			seen[n] = true
		}
		for _, n := range t.order {
			if !seen[n] {
				known = append(known, n)
			}
		}
		sort.Strings(known)
		names = known
		return nil
	})
	return names, err
}

// AvailableYears returns the years that can be reported on
func (t *Tracker) AvailableYears(ctx context.Context) ([]string, error) {
	var years []string
	err := t.do(ctx, func() error {
		sctx, cancel := t.storeContext()
		defer cancel()
		var err error
		years, err = t.reporting.AvailableYears(sctx)
		return err
	})
	return years, err
}

// DaySummary returns the stored totals for a date
func (t *Tracker) DaySummary(ctx context.Context, date string) ([]*services.TaskDay, error) {
	var days []*services.TaskDay
	err := t.do(ctx, func() error {
		parsed, err := t.input.ParseDate(date)
		if err != nil {
			return validation.ToAppError(err)
		}
		if parsed == t.today {
			if err := t.flushAll(t.now()); err != nil {
				return err
			}
		}
		sctx, cancel := t.storeContext()
		defer cancel()
		days, err = t.tasksSvc.DaySummary(sctx, parsed)
		return err
	})
	return days, err
}

// History returns per-day totals matching criteria
func (t *Tracker) History(ctx context.Context, criteria services.SearchCriteria, order services.SortOrder) ([]*services.TaskDay, error) {
	var days []*services.TaskDay
	err := t.do(ctx, func() error {
		for _, d := range []string{criteria.From, criteria.To} {
			if d == "" {
				continue
			}
			if _, err := t.input.ParseDate(d); err != nil {
				return validation.ToAppError(err)
			}
		}
		sctx, cancel := t.storeContext()
		defer cancel()
		var err error
		days, err = t.search.DailyTotals(sctx, criteria, order)
		return err
	})
	return days, err
}
var _ API = (*Tracker)(nil)
