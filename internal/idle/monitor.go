// Package idle counts seconds without user input and decides when running
// timers should be paused.
package idle

import (
	"time"
)

// DefaultThreshold is the inactivity period after which tasks are paused.
const DefaultThreshold = 30 * time.Minute

// tickPeriod is the duration one Tick represents.
const tickPeriod = time.Second

// Status is a read-only view of the monitor for display.
type Status struct {
	Enabled   bool
	Degraded  bool
	Reason    string
	Idle      time.Duration
	Threshold time.Duration
}

// Active reports whether the monitor can trigger a pause.
func (s Status) Active() bool {
	return s.Enabled && !s.Degraded
}

// Monitor is the idle counter. It is not safe for concurrent use; the
// owner ticks it and resets it from a single goroutine.
type Monitor struct {
	counter   int
	threshold int
	enabled   bool
	degraded  bool
	reason    string
}

// NewMonitor returns a monitor that triggers after threshold without
// activity. The threshold is rounded down to whole seconds, minimum one.
func NewMonitor(enabled bool, threshold time.Duration) *Monitor {
	m := &Monitor{enabled: enabled}
	m.SetThreshold(threshold)
	return m
}

// Tick advances the counter by one second. It returns true exactly when the
// counter reaches the threshold, and then starts counting again from zero.
// A disabled or degraded monitor never triggers and its counter is frozen.
func (m *Monitor) Tick() bool {
	return m.Advance(tickPeriod)
}

// Advance adds d, in whole seconds, to the counter. It triggers like Tick
// and at most once per call.
func (m *Monitor) Advance(d time.Duration) bool {
	if !m.enabled || m.degraded {
		return false
	}
	n := int(d / tickPeriod)
	if n <= 0 {
		return false
	}
	m.counter += n
	if m.counter >= m.threshold {
		m.counter = 0
		return true
	}
	return false
}

// Reset records user activity.
func (m *Monitor) Reset() {
	m.counter = 0
}

// SetEnabled toggles detection. The counter keeps its value.
func (m *Monitor) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// SetThreshold changes the inactivity period.
func (m *Monitor) SetThreshold(d time.Duration) {
	ticks := int(d / tickPeriod)
	if ticks < 1 {
		ticks = 1
	}
	m.threshold = ticks
	if m.counter >= m.threshold {
		m.counter = m.threshold - 1
	}
}

// Degrade marks the activity signal as unavailable. From then on the user
// is always considered active.
func (m *Monitor) Degrade(err error) {
	m.degraded = true
	m.counter = 0
	if err != nil {
		m.reason = err.Error()
	}
}

// Status returns the current state.
func (m *Monitor) Status() Status {
	return Status{
		Enabled:   m.enabled,
		Degraded:  m.degraded,
		Reason:    m.reason,
		Idle:      time.Duration(m.counter) * tickPeriod,
		Threshold: time.Duration(m.threshold) * tickPeriod,
	}
}
