package metrics

import (
	"time"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
)

const unknownCode = "unknown"

type promRecorder struct {
	cycles   prometheus.Counter
	failures *prometheus.CounterVec
	sensors  prometheus.Gauge
	duration prometheus.Histogram
}

// No-op implementation
type noopRecorder struct{}

// NewRecorder registers the cycle metrics with reg. When metrics are
// disabled a no-op recorder is returned and nothing is registered.
func NewRecorder(cfg Config, reg prometheus.Registerer, log logger.Logger) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled() {
		log.Debug().Msg("Metrics collection disabled, using no-op recorder")
		return Noop(), nil
	}

	r := &promRecorder{
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "poll_cycles_total",
			Help:      "Total poll cycles run.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "poll_failures_total",
			Help:      "Poll cycles whose enumeration failed, by error code.",
		}, []string{"code"}),
		sensors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "sensors",
			Help:      "Complete sensor records in the latest snapshot.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "poll_cycle_duration_seconds",
			Help:      "Time spent enumerating, reconciling and presenting one cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}

	for _, c := range []prometheus.Collector{r.cycles, r.failures, r.sensors, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errFactory.Wrap(ErrInit, err)
		}
	}

	log.Debug().
		Str("listen", cfg.Listen).
		Str("namespace", cfg.Namespace).
		Msg("Metrics recorder initialized successfully")

	return r, nil
}

func (r *promRecorder) ObserveCycle(d time.Duration, sensors int, err error) {
	r.cycles.Inc()
	r.sensors.Set(float64(sensors))
	r.duration.Observe(d.Seconds())

	if err != nil {
		code := unknownCode
		if c, ok := errors.CodeOf(err); ok {
			code = c.String()
		}
		r.failures.WithLabelValues(code).Inc()
	}
}

// Noop returns a recorder that discards every observation.
func Noop() Recorder {
	return &noopRecorder{}
}

// No-op implementation
func (*noopRecorder) ObserveCycle(time.Duration, int, error) {}
