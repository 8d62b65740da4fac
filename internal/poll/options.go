package poll

import (
	"context"
	"time"

	"codeberg.org/mutker/aidasensors/internal/logger"
	"codeberg.org/mutker/aidasensors/internal/metrics"
)

// DefaultInterval is the time between the starts of consecutive cycles.
const DefaultInterval = time.Second

// Option configures a Loop.
type Option func(*Loop)

// WithInterval sets the cycle interval.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		l.interval = d
	}
}

// WithMaxCycles stops Run after n cycles. Zero runs until cancelled.
func WithMaxCycles(n int) Option {
	return func(l *Loop) {
		l.maxCycles = n
	}
}

func WithLogger(log logger.Logger) Option {
	return func(l *Loop) {
		l.log = log
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(l *Loop) {
		l.recorder = r
	}
}

// WithClock replaces time.Now for elapsed time measurement.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		l.now = now
	}
}

// WithSleeper replaces the end-of-cycle wait. The sleeper must return early
// with a non-nil error once ctx is done.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Loop) {
		l.sleep = sleep
	}
}
