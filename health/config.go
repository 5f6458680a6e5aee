package health

import (
	"math"
	"time"

	"github.com/iu7726/health-monitor/observe"
)

// Defaults applied by NewMonitor.
const (
	DefaultInterval = 3 * time.Second
	DefaultTimeout  = time.Second
)

// staleFactor is how many intervals a snapshot may age before the loop is
// judged stalled.
const staleFactor = 3

// MonitorConfig configures the health monitor. It is fixed for the
// monitor's lifetime.
type MonitorConfig struct {
	// Interval is the time between cycle starts.
	// Default: 3 seconds
	Interval time.Duration

	// Timeout is the per-indicator timeout for indicators that set none.
	// Default: 1 second
	Timeout time.Duration
}

func (c MonitorConfig) withDefaults() MonitorConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// StaleAfter returns the snapshot age beyond which Status reports a stall.
// It saturates at the largest Duration instead of overflowing.
func (c MonitorConfig) StaleAfter() time.Duration {
	if c.Interval > math.MaxInt64/staleFactor {
		return math.MaxInt64
	}
	return staleFactor * c.Interval
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the diagnostic sink for unexpected cycle failures.
func WithLogger(l observe.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics sets the cycle and indicator metrics recorder.
func WithMetrics(mt observe.Metrics) Option {
	return func(m *Monitor) {
		if mt != nil {
			m.metrics = mt
		}
	}
}

// WithTracer sets the tracer used for cycle and indicator spans.
func WithTracer(t observe.Tracer) Option {
	return func(m *Monitor) {
		if t != nil {
			m.tracer = t
		}
	}
}

// WithInstruments sets logger, metrics and tracer together.
func WithInstruments(inst *observe.Instruments) Option {
	return func(m *Monitor) {
		if inst == nil {
			return
		}
		WithLogger(inst.Logger)(m)
		WithMetrics(inst.Metrics)(m)
		WithTracer(inst.Tracer)(m)
	}
}
