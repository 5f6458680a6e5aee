package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iu7726/health-monitor/observe"
	"github.com/iu7726/health-monitor/resilience"
)

// runCycle executes one cycle body. It never panics and always clears the
// in-progress flag.
func (m *Monitor) runCycle(ctx context.Context) {
	defer m.inProgress.Store(false)

	start := time.Now()
	ctx, span := m.tracer.StartCycle(ctx)

	var cycleErr error
	defer func() {
		if r := recover(); r != nil {
			cycleErr = fmt.Errorf("health: cycle panicked: %v", r)
			m.logger.Error(ctx, "health check cycle failed",
				observe.Field{Key: "panic", Value: fmt.Sprint(r)},
				observe.Field{Key: "duration_ms", Value: time.Since(start).Milliseconds()},
			)
		}
		m.tracer.EndSpan(span, cycleErr)
	}()

	lag := measureLag()
	details := m.runIndicators(ctx, m.registered())

	snap := &HealthStatus{
		Status:    aggregate(details),
		Lag:       lag,
		Details:   details,
		Timestamp: time.Now(),
	}
	m.metrics.RecordCycle(ctx, lag, time.Since(start), snap.OK())
	m.snapshot.Store(snap)

	if !snap.OK() {
		cycleErr = errors.New("health: one or more indicators down")
	}
}

// registered copies the registry so later registrations only affect the
// next cycle.
func (m *Monitor) registered() []Indicator {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Indicator, len(m.indicators))
	copy(out, m.indicators)
	return out
}

// measureLag reports how long a zero-delay timer takes to fire.
func measureLag() time.Duration {
	start := time.Now()
	fired := make(chan time.Duration, 1)
	time.AfterFunc(0, func() {
		fired <- time.Since(start)
	})
	return <-fired
}

// runIndicators runs every indicator concurrently and waits for all of them.
func (m *Monitor) runIndicators(ctx context.Context, indicators []Indicator) map[string]ComponentDetail {
	results := make([]ComponentDetail, len(indicators))

	var g errgroup.Group
	for i, ind := range indicators {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i] = Down(fmt.Sprintf("panic: %v", r))
					m.logger.Error(ctx, "health indicator instrumentation failed",
						observe.Field{Key: "indicator", Value: ind.Name},
						observe.Field{Key: "panic", Value: fmt.Sprint(r)},
					)
				}
			}()
			results[i] = m.runIndicator(ctx, ind)
			return nil
		})
	}
	_ = g.Wait()

	// Registration order decides which duplicate name wins.
	details := make(map[string]ComponentDetail, len(indicators))
	for i, ind := range indicators {
		details[ind.Name] = results[i]
	}
	return details
}

func (m *Monitor) runIndicator(ctx context.Context, ind Indicator) ComponentDetail {
	timeout := ind.Timeout
	if timeout <= 0 {
		timeout = m.config.Timeout
	}

	ctx, span := m.tracer.StartIndicator(ctx, ind.Name)

	check := ind.Check
	if check == nil {
		check = func(context.Context) error { return ErrNilCheck }
	}

	outcome := resilience.NewTimeout(resilience.TimeoutConfig{Timeout: timeout}).Race(ctx, check)

	var detail ComponentDetail
	switch {
	case outcome.TimedOut:
		detail = Down(timeoutMessage(timeout))
	case outcome.Err != nil:
		detail = Down(errorMessage(outcome.Err))
	default:
		detail = Up(outcome.Elapsed)
	}

	var err error
	if detail.Status == DetailDown {
		err = errors.New(detail.Error)
	}
	m.tracer.EndSpan(span, err)
	m.metrics.RecordIndicator(ctx, ind.Name, outcome.Elapsed, err)

	return detail
}

func timeoutMessage(timeout time.Duration) string {
	return fmt.Sprintf("Timeout of %dms exceeded", timeout.Milliseconds())
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownErrorMessage
}
