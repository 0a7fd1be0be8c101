package domain

import (
	"time"
)

// TimerState is the state of a task's timer.
type TimerState int

const (
	// Paused is the initial state.
	Paused TimerState = iota
	Running
)

// String returns the state name.
func (s TimerState) String() string {
	switch s {
	case Running:
		return "running"
	default:
		return "paused"
	}
}

// Action labels rendered for a task. They describe state and are never
// parsed back.
const (
	ActionStart    = "Start"
	ActionPause    = "Pause"
	ActionContinue = "Continue"
)

// Task is the in-memory timer for one named task. It is not safe for
// concurrent use; the application controller owns every instance.
//
// Time is measured as wall-clock deltas between Start and Pause, so a
// session that spans a system sleep includes the sleep.
type Task struct {
	name         string
	accumulated  time.Duration
	state        TimerState
	sessionStart time.Time
	sessions     int
}

// NewTask creates a paused task whose accumulated time is seed.
func NewTask(name string, seed time.Duration) *Task {
	return &Task{
		name:        name,
		accumulated: seed,
	}
}

// Name returns the task name.
func (t *Task) Name() string {
	return t.name
}

// State returns the current timer state.
func (t *Task) State() TimerState {
	return t.state
}

// IsRunning reports whether a session is in progress.
func (t *Task) IsRunning() bool {
	return t.state == Running
}

// SessionStart returns the start of the in-progress session. The second
// result is false when the task is paused.
func (t *Task) SessionStart() (time.Time, bool) {
	if t.state != Running {
		return time.Time{}, false
	}
	return t.sessionStart, true
}

// Start begins a session at now. It is a no-op unless the task is paused
// and reports whether a transition happened.
func (t *Task) Start(now time.Time) bool {
	if t.state != Paused {
		return false
	}
	t.state = Running
	t.sessionStart = now
	t.sessions++
	return true
}

// Pause ends the in-progress session at now and adds its length to the
// accumulated time. It is a no-op unless the task is running and reports
// whether a transition happened.
func (t *Task) Pause(now time.Time) bool {
	if t.state != Running {
		return false
	}
	t.accumulated += sessionLength(t.sessionStart, now)
	t.state = Paused
	t.sessionStart = time.Time{}
	return true
}

// Elapsed returns the accumulated time plus the in-progress session.
func (t *Task) Elapsed(now time.Time) time.Duration {
	if t.state == Running {
		return t.accumulated + sessionLength(t.sessionStart, now)
	}
	return t.accumulated
}

// ElapsedSeconds returns Elapsed floored to whole seconds.
func (t *Task) ElapsedSeconds(now time.Time) int64 {
	return FloorSeconds(t.Elapsed(now))
}

// SetManualTime overwrites the accumulated time. State and any session in
// progress are kept; callers decide whether to pause first.
func (t *Task) SetManualTime(d time.Duration) {
	t.accumulated = d
}

// Rebase moves an in-progress session start to now, folding the time
// already run into the accumulated total. Used when a session crosses
// midnight so the new day starts counting from zero.
func (t *Task) Rebase(now time.Time) {
	if t.state != Running {
		return
	}
	t.accumulated += sessionLength(t.sessionStart, now)
	t.sessionStart = now
}

// ActionLabel renders the next action for the task.
func (t *Task) ActionLabel() string {
	switch {
	case t.state == Running:
		return ActionPause
	case t.sessions > 0:
		return ActionContinue
	default:
		return ActionStart
	}
}

// sessionLength never goes negative when the wall clock steps backwards.
func sessionLength(start, end time.Time) time.Duration {
	if d := end.Sub(start); d > 0 {
		return d
	}
	return 0
}

// FloorSeconds truncates d to whole seconds toward negative infinity.
func FloorSeconds(d time.Duration) int64 {
	s := int64(d / time.Second)
	if d < 0 && d%time.Second != 0 {
		s--
	}
	return s
}
