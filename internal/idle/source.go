package idle

import (
	"context"
	"errors"
	"time"
)

// ErrSourceUnavailable is returned when the platform exposes no input signal.
var ErrSourceUnavailable = errors.New("input activity source unavailable")

// DefaultPollInterval is how often the pointer position is sampled.
const DefaultPollInterval = 500 * time.Millisecond

// ActivitySource reports user input. Watch blocks until ctx is done or the
// source fails, calling notify on every detected input event.
type ActivitySource interface {
	Watch(ctx context.Context, notify func()) error
}

// LocateFunc returns the current pointer position.
type LocateFunc func() (x, y int)

// PollSource samples a position on an interval and notifies when it moves.
type PollSource struct {
	interval time.Duration
	locate   LocateFunc
}

// NewPollSource returns a source that calls locate every interval.
func NewPollSource(interval time.Duration, locate LocateFunc) *PollSource {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &PollSource{interval: interval, locate: locate}
}

// Watch polls until ctx is done.
func (p *PollSource) Watch(ctx context.Context, notify func()) (err error) {
	if p.locate == nil {
		return ErrSourceUnavailable
	}
	defer func() {
		// native pointer lookups can panic when no display is attached
		if r := recover(); r != nil {
			err = ErrSourceUnavailable
		}
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	lastX, lastY := p.locate()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			x, y := p.locate()
			if x != lastX || y != lastY {
				lastX, lastY = x, y
				notify()
			}
		}
	}
}

type unavailableSource struct{}

// Unavailable returns a source that always fails with ErrSourceUnavailable.
func Unavailable() ActivitySource {
	return unavailableSource{}
}

func (unavailableSource) Watch(context.Context, func()) error {
	return ErrSourceUnavailable
}
