// Package poll drives the harvest cycle: enumerate the source, reconcile
// the fragments into a snapshot, present it, then wait out the rest of the
// interval. Cycles run strictly one after another and share no state.
package poll

import (
	"context"
	"time"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"codeberg.org/mutker/aidasensors/internal/metrics"
	"codeberg.org/mutker/aidasensors/internal/present"
	"codeberg.org/mutker/aidasensors/internal/sensor"
	"codeberg.org/mutker/aidasensors/internal/source"
)

type Loop struct {
	src       source.Source
	presenter present.Presenter
	interval  time.Duration
	maxCycles int
	log       logger.Logger
	recorder  metrics.Recorder
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

// New returns a loop reading src and handing each snapshot to p.
func New(src source.Source, p present.Presenter, opts ...Option) *Loop {
	l := &Loop{
		src:       src,
		presenter: p,
		interval:  DefaultInterval,
		log:       logger.Default(),
		recorder:  metrics.Noop(),
		now:       time.Now,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Run performs cycles until ctx is cancelled or the configured number of
// cycles has run. Each cycle starts one interval after the previous one
// started; a cycle that overruns the interval is followed immediately by
// the next, with no catch-up. Cancellation is a normal stop and returns nil.
func (l *Loop) Run(ctx context.Context) error {
	if l.interval <= 0 {
		return errors.New().WithData(errors.ErrInvalidInterval, l.interval.String())
	}

	l.log.Info().
		Str("source", l.src.Name()).
		Dur("interval", l.interval).
		Int("max_cycles", l.maxCycles).
		Msg("Starting sensor polling")

	for n := 1; ; n++ {
		if ctx.Err() != nil {
			break
		}

		start := l.now()
		l.Cycle(ctx)

		if l.maxCycles > 0 && n >= l.maxCycles {
			break
		}

		elapsed := l.now().Sub(start)
		wait := l.interval - elapsed
		if wait < 0 {
			l.log.Debug().Dur("elapsed", elapsed).Dur("interval", l.interval).Msg("Cycle overran interval")
			wait = 0
		}

		if err := l.sleep(ctx, wait); err != nil {
			break
		}
	}

	l.log.Info().Msg("Sensor polling stopped")

	return nil
}

// Cycle runs one enumerate, reconcile and present pass and returns the
// snapshot it presented. A failed enumeration yields an empty snapshot.
func (l *Loop) Cycle(ctx context.Context) sensor.Snapshot {
	start := l.now()

	entries, enumErr := l.src.Enumerate(ctx)
	if enumErr != nil {
		l.logFailure(enumErr, "Failed to enumerate sensor values")
		entries = nil
	}

	snap := sensor.Reconcile(entries)
	snap.Time = start

	l.log.Debug().
		Int("entries", snap.Stats.Entries).
		Int("ignored", snap.Stats.Ignored).
		Int("incomplete", snap.Stats.Incomplete).
		Int("sensors", snap.Len()).
		Msg("Snapshot reconciled")

	if err := l.presenter.Present(snap); err != nil {
		l.logFailure(err, "Failed to present snapshot")
	}

	l.recorder.ObserveCycle(l.now().Sub(start), snap.Len(), enumErr)

	return snap
}

func (l *Loop) logFailure(err error, msg string) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		l.log.ErrorWithCode(appErr).Msg(msg)
		return
	}

	l.log.Error().Err(err).Msg(msg)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
