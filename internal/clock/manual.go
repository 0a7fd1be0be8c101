package clock

import (
	"sync"
	"time"
)

// Manual is a hand-driven Clock. Advance moves time forward and delivers
// one tick to every live ticker whose period has elapsed. Tick channels are
// unbuffered, so Advance returns only after each receiver took its tick.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

// NewManual returns a manual clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t without delivering ticks.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Skip moves time forward by d the way a stalled reader sees it: tickers
// drop every tick that fell due in the gap and resume at the next boundary.
func (m *Manual) Skip(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	for _, t := range m.tickers {
		for !t.next.After(m.now) {
			t.next = t.next.Add(t.period)
		}
	}
}

// NewTicker registers a ticker firing every d of manual time.
func (m *Manual) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{
		clock:  m,
		period: d,
		next:   m.now.Add(d),
		ch:     make(chan time.Time),
		done:   make(chan struct{}),
	}
	m.tickers = append(m.tickers, t)
	return t
}

// Tickers reports how many tickers are live. Tests use it to wait for a
// loop to install its ticker before advancing.
func (m *Manual) Tickers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

// Advance moves time forward by d, one period at a time, sending a tick for
// every period boundary crossed. The mutex is not held while sending.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var due *manualTicker
		for _, t := range m.tickers {
			if !t.next.After(target) && (due == nil || t.next.Before(due.next)) {
				due = t
			}
		}
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		at := due.next
		m.now = at
		due.next = at.Add(due.period)
		m.mu.Unlock()

		select {
		case due.ch <- at:
		case <-due.done:
		}
	}
}

func (m *Manual) remove(t *manualTicker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, candidate := range m.tickers {
		if candidate == t {
			m.tickers = append(m.tickers[:i], m.tickers[i+1:]...)
			return
		}
	}
}

type manualTicker struct {
	clock  *Manual
	period time.Duration
	next   time.Time
	ch     chan time.Time
	done   chan struct{}
	once   sync.Once
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.once.Do(func() {
		close(t.done)
		t.clock.remove(t)
	})
}
