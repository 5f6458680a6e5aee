package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records health-cycle metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCycle records one completed cycle: its measured lag, wall
	// duration, and whether the published snapshot was ok.
	RecordCycle(ctx context.Context, lag, duration time.Duration, healthy bool)

	// RecordDropped records a tick that arrived while a cycle was running.
	RecordDropped(ctx context.Context)

	// RecordIndicator records one indicator outcome. err is nil when up.
	RecordIndicator(ctx context.Context, name string, latency time.Duration, err error)
}

type metricsImpl struct {
	cycles       metric.Int64Counter
	dropped      metric.Int64Counter
	lagHist      metric.Float64Histogram
	cycleHist    metric.Float64Histogram
	status       metric.Int64Gauge
	durationHist metric.Float64Histogram
	failures     metric.Int64Counter
}

// NewMetrics creates the health instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	cycles, err := meter.Int64Counter(
		"health.cycle.total",
		metric.WithDescription("Total number of completed health check cycles"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return nil, err
	}

	dropped, err := meter.Int64Counter(
		"health.cycle.dropped",
		metric.WithDescription("Ticks dropped because a cycle was still running"),
		metric.WithUnit("{tick}"),
	)
	if err != nil {
		return nil, err
	}

	lagHist, err := meter.Float64Histogram(
		"health.cycle.lag_ms",
		metric.WithDescription("Scheduler lag measured at the start of each cycle"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cycleHist, err := meter.Float64Histogram(
		"health.cycle.duration_ms",
		metric.WithDescription("Wall time of each health check cycle"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	status, err := meter.Int64Gauge(
		"health.status",
		metric.WithDescription("Published health status (1 = ok, 0 = down)"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"health.indicator.duration_ms",
		metric.WithDescription("Indicator check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"health.indicator.failures",
		metric.WithDescription("Indicator checks that resolved down"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		cycles:       cycles,
		dropped:      dropped,
		lagHist:      lagHist,
		cycleHist:    cycleHist,
		status:       status,
		durationHist: durationHist,
		failures:     failures,
	}, nil
}

func (m *metricsImpl) RecordCycle(ctx context.Context, lag, duration time.Duration, healthy bool) {
	m.cycles.Add(ctx, 1, metric.WithAttributes(attribute.Bool("health.ok", healthy)))
	m.lagHist.Record(ctx, millis(lag))
	m.cycleHist.Record(ctx, millis(duration))

	var v int64
	if healthy {
		v = 1
	}
	m.status.Record(ctx, v)
}

func (m *metricsImpl) RecordDropped(ctx context.Context) {
	m.dropped.Add(ctx, 1)
}

func (m *metricsImpl) RecordIndicator(ctx context.Context, name string, latency time.Duration, err error) {
	status := "up"
	if err != nil {
		status = "down"
	}

	opt := metric.WithAttributes(
		attribute.String("indicator.name", name),
		attribute.String("indicator.status", status),
	)

	m.durationHist.Record(ctx, millis(latency), opt)
	if err != nil {
		m.failures.Add(ctx, 1, opt)
	}
}

// millis converts d to fractional milliseconds.
func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

type noopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordCycle(ctx context.Context, lag, duration time.Duration, healthy bool) {}
func (noopMetrics) RecordDropped(ctx context.Context)                                         {}
func (noopMetrics) RecordIndicator(ctx context.Context, name string, latency time.Duration, err error) {
}
